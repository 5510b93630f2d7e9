package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/flowsocial/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error)
	GetByBrandID(ctx context.Context, brandID, userID int64) ([]*models.Post, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	CompleteRender(ctx context.Context, postID int64, imageURL string) error
	MarkFailed(ctx context.Context, postID int64, reason string) error
	FailStale(ctx context.Context, olderThan time.Time, reason string) (int64, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, brand_id, caption, image_url, prompt_used, image_prompt, status, error, created_at, updated_at`

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.UserID, &p.BrandID, &p.Caption, &p.ImageURL, &p.PromptUsed, &p.ImagePrompt,
		&p.Status, &p.Error, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, brand_id, caption, prompt_used, image_prompt, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	status := post.Status
	if status == "" {
		status = models.PostStatusGenerating
	}

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.UserID, post.BrandID, post.Caption, post.PromptUsed, post.ImagePrompt, status).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.UserID, post.BrandID, post.Caption, post.PromptUsed, post.ImagePrompt, status).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE id = $1"

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC"
	return r.list(ctx, query, userID)
}

func (r *postRepository) GetByBrandID(ctx context.Context, brandID, userID int64) ([]*models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE brand_id = $1 AND user_id = $2 ORDER BY created_at DESC, id DESC"
	return r.list(ctx, query, brandID, userID)
}

// CountByUserID counts every post the user has created. It drives persona
// and shot rotation, so deleted posts shift the rotation.
func (r *postRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts WHERE user_id = $1", userID).Scan(&n)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

func (r *postRepository) CompleteRender(ctx context.Context, postID int64, imageURL string) error {
	query := `
		UPDATE posts
		SET image_url = $1,
			status = $2,
			error = '',
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, imageURL, models.PostStatusReady, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) MarkFailed(ctx context.Context, postID int64, reason string) error {
	query := `
		UPDATE posts
		SET status = $1,
			error = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, reason, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// FailStale fails posts still generating whose last update is before olderThan.
func (r *postRepository) FailStale(ctx context.Context, olderThan time.Time, reason string) (int64, error) {
	query := `
		UPDATE posts
		SET status = $1,
			error = $2,
			updated_at = $3
		WHERE status = $4 AND updated_at < $5
	`
	res, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, reason, time.Now(), models.PostStatusGenerating, olderThan)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
