package models

import "time"

// ApiKey never holds the plaintext key after creation; only its hash is
// stored and Prefix is what users see in listings.
type ApiKey struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	KeyHash   string    `db:"key_hash" json:"-"`
	Prefix    string    `db:"prefix" json:"prefix"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
