package model

import (
	"time"

	"github.com/lib/pq"
)

// User представляет учетную запись пользователя (email/пароль).
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Verified     bool      `db:"verified" json:"verified"` // подтвержден ли email
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserProfile представляет профиль путешественника, создаваемый после подтверждения email.
type UserProfile struct {
	ID                 int64          `db:"id" json:"id"`
	UserID             int64          `db:"user_id" json:"user_id"`
	Name               string         `db:"name" json:"name"`
	Email              string         `db:"email" json:"email"`
	Age                *int           `db:"age" json:"age,omitempty"`
	DocumentType       *string        `db:"document_type" json:"document_type,omitempty"` // тип документа: "dni", "passport" и т.п.
	DocumentNumber     *string        `db:"document_number" json:"document_number,omitempty"`
	Interests          pq.StringArray `db:"interests" json:"interests"`
	PreferredCountries pq.StringArray `db:"preferred_countries" json:"preferred_countries"`
	RoomPreference     *string        `db:"room_preference" json:"room_preference,omitempty"`
	Verified           bool           `db:"verified" json:"verified"`                   // email подтвержден
	IdentityVerified   bool           `db:"identity_verified" json:"identity_verified"` // личность подтверждена внешней проверкой
	ProfileImageURL    *string        `db:"profile_image_url" json:"profile_image_url,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}
