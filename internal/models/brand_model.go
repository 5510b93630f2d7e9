package models

import "time"

type Brand struct {
	ID                  int64     `db:"id" json:"id"`
	UserID              int64     `db:"user_id" json:"user_id"`
	BrandName           string    `db:"brand_name" json:"brand_name"`
	Industry            string    `db:"industry" json:"industry"`
	TargetMarket        string    `db:"target_market" json:"target_market"`
	BrandColorsAndStyle string    `db:"brand_colors_and_style" json:"brand_colors_and_style"`
	ContentPillars      string    `db:"content_pillars" json:"content_pillars"`
	DefaultImageFocus   string    `db:"default_image_focus" json:"default_image_focus"`
	PersonaPrimary      string    `db:"persona_primary" json:"persona_primary"`
	PersonaSecondary    string    `db:"persona_secondary" json:"persona_secondary"`
	PersonaThird        string    `db:"persona_third" json:"persona_third"`
	PeopleMode          string    `db:"people_mode" json:"people_mode"` // auto, no_people, prefer_people
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
