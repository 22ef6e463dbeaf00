package model

import "time"

// EmailVerification представляет одноразовый токен подтверждения email.
type EmailVerification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Email     string    `db:"email" json:"email"`
	Token     string    `db:"verification_token" json:"-"`
	Verified  bool      `db:"verified" json:"verified"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
