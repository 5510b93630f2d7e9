package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/flowsocial/internal/models"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) (int64, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Brand, bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Brand, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, brand *models.Brand) error
	Remove(ctx context.Context, id, userID int64) (bool, error)
}

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

const brandColumns = `id, user_id, brand_name, industry, target_market, brand_colors_and_style,
	content_pillars, default_image_focus, persona_primary, persona_secondary, persona_third,
	people_mode, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrand(row rowScanner) (*models.Brand, error) {
	var b models.Brand
	err := row.Scan(&b.ID, &b.UserID, &b.BrandName, &b.Industry, &b.TargetMarket, &b.BrandColorsAndStyle,
		&b.ContentPillars, &b.DefaultImageFocus, &b.PersonaPrimary, &b.PersonaSecondary, &b.PersonaThird,
		&b.PeopleMode, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *brandRepository) Create(ctx context.Context, b *models.Brand) (int64, error) {
	query := `
		INSERT INTO brands (user_id, brand_name, industry, target_market, brand_colors_and_style,
			content_pillars, default_image_focus, persona_primary, persona_secondary, persona_third, people_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, b.UserID, b.BrandName, b.Industry, b.TargetMarket, b.BrandColorsAndStyle,
		b.ContentPillars, b.DefaultImageFocus, b.PersonaPrimary, b.PersonaSecondary, b.PersonaThird, b.PeopleMode).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *brandRepository) GetByID(ctx context.Context, id, userID int64) (*models.Brand, bool, error) {
	query := "SELECT " + brandColumns + " FROM brands WHERE id = $1 AND user_id = $2"

	b, err := scanBrand(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return b, true, nil
}

func (r *brandRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Brand, error) {
	query := "SELECT " + brandColumns + " FROM brands WHERE user_id = $1 ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var brands []*models.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM brands WHERE user_id = $1", userID).Scan(&n)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

func (r *brandRepository) Update(ctx context.Context, b *models.Brand) error {
	query := `
		UPDATE brands
		SET brand_name = $1,
			industry = $2,
			target_market = $3,
			brand_colors_and_style = $4,
			content_pillars = $5,
			default_image_focus = $6,
			persona_primary = $7,
			persona_secondary = $8,
			persona_third = $9,
			people_mode = $10,
			updated_at = $11
		WHERE id = $12 AND user_id = $13
	`
	_, err := r.db.ExecContext(ctx, query, b.BrandName, b.Industry, b.TargetMarket, b.BrandColorsAndStyle,
		b.ContentPillars, b.DefaultImageFocus, b.PersonaPrimary, b.PersonaSecondary, b.PersonaThird,
		b.PeopleMode, time.Now(), b.ID, b.UserID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *brandRepository) Remove(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return n > 0, nil
}
