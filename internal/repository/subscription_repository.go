package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/flowsocial/internal/models"
)

type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error)
	Upsert(ctx context.Context, subscription *models.Subscription) error
	UpdateStatus(ctx context.Context, userID int64, status string) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error) {
	var s models.Subscription
	var endDate sql.NullTime
	query := `
		SELECT id, user_id, subscription_id, customer_id, price_id, plan, subscription_end_date, status, created_at, updated_at
		FROM subscriptions WHERE user_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.ID, &s.UserID, &s.SubscriptionID, &s.CustomerID,
		&s.PriceID, &s.Plan, &endDate, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	if endDate.Valid {
		s.SubscriptionEndDate = endDate.Time
	}
	return &s, true, nil
}

// Upsert keeps one row per user holding the latest subscription.
func (r *subscriptionRepository) Upsert(ctx context.Context, s *models.Subscription) error {
	var endDate sql.NullTime
	if !s.SubscriptionEndDate.IsZero() {
		endDate = sql.NullTime{Time: s.SubscriptionEndDate, Valid: true}
	}

	query := `
		INSERT INTO subscriptions (user_id, subscription_id, customer_id, price_id, plan, subscription_end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET subscription_id = EXCLUDED.subscription_id,
			customer_id = EXCLUDED.customer_id,
			price_id = EXCLUDED.price_id,
			plan = EXCLUDED.plan,
			subscription_end_date = EXCLUDED.subscription_end_date,
			status = EXCLUDED.status,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.SubscriptionID, s.CustomerID, s.PriceID, s.Plan, endDate, s.Status)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, userID int64, status string) error {
	query := `
		UPDATE subscriptions
		SET status = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, status, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
