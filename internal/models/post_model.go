package models

import "time"

type Post struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	BrandID     int64     `db:"brand_id" json:"brand_id"`
	Caption     string    `db:"caption" json:"caption"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	PromptUsed  string    `db:"prompt_used" json:"prompt_used"`
	ImagePrompt string    `db:"image_prompt" json:"image_prompt"`
	Status      string    `db:"status" json:"status"` // generating, ready, failed
	Error       string    `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	FileURL   string    `db:"file_url" json:"file_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusGenerating = "generating"
	PostStatusReady      = "ready"
	PostStatusFailed     = "failed"
)
