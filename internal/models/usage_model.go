package models

import "time"

// UsagePeriod counts metered generations for one user in one calendar month.
type UsagePeriod struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PostsUsed   int       `db:"posts_used" json:"posts_used"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
