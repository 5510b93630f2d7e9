package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/flowsocial/internal/models"
)

type UsageRepository interface {
	// Increment adds one metered post for the period. When limit is set the
	// increment only happens while posts_used is below it; ok is false when
	// the quota was already reached and nothing was written.
	Increment(ctx context.Context, userID int64, periodStart time.Time, limit *int) (postsUsed int, ok bool, err error)
	Get(ctx context.Context, userID int64, periodStart time.Time) (*models.UsagePeriod, bool, error)
}

type usageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) UsageRepository {
	return &usageRepository{db: db}
}

// The conflict branch carries the limit check so that concurrent requests
// serialize on the row lock instead of racing a read and a write.
const incrementUsageQuery = `
	INSERT INTO usage_stats (user_id, period_start, posts_used)
	VALUES ($1, $2, 1)
	ON CONFLICT (user_id, period_start) DO UPDATE
	SET posts_used = usage_stats.posts_used + 1,
		updated_at = CURRENT_TIMESTAMP
	WHERE CAST($3 AS INTEGER) IS NULL OR usage_stats.posts_used < CAST($3 AS INTEGER)
	RETURNING posts_used
`

func (r *usageRepository) Increment(ctx context.Context, userID int64, periodStart time.Time, limit *int) (int, bool, error) {
	var limitArg any
	if limit != nil {
		limitArg = int64(*limit)
	}

	var used int
	err := r.db.QueryRowContext(ctx, incrementUsageQuery, userID, periodStart, limitArg).Scan(&used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		slog.Info(err.Error())
		return 0, false, err
	}

	return used, true, nil
}

func (r *usageRepository) Get(ctx context.Context, userID int64, periodStart time.Time) (*models.UsagePeriod, bool, error) {
	query := `SELECT id, user_id, posts_used FROM usage_stats WHERE user_id = $1 AND period_start = $2`

	u := models.UsagePeriod{PeriodStart: periodStart}
	err := r.db.QueryRowContext(ctx, query, userID, periodStart).Scan(&u.ID, &u.UserID, &u.PostsUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &u, true, nil
}
