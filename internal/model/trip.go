package model

import (
	"time"

	"github.com/lib/pq"
)

// Trip представляет поездку, организованную пользователем, к которой могут
// присоединяться другие путешественники.
type Trip struct {
	ID                  int64          `db:"id" json:"id"`
	OrganizerID         int64          `db:"organizer_id" json:"organizer_id"`
	Destination         string         `db:"destination" json:"destination"`
	Description         *string        `db:"description" json:"description,omitempty"`
	StartDate           *time.Time     `db:"start_date" json:"start_date,omitempty"`
	EndDate             *time.Time     `db:"end_date" json:"end_date,omitempty"`
	BudgetMin           *float64       `db:"budget_min" json:"budget_min,omitempty"`
	BudgetMax           *float64       `db:"budget_max" json:"budget_max,omitempty"`
	MaxParticipants     int            `db:"max_participants" json:"max_participants"`
	CurrentParticipants int            `db:"current_participants" json:"current_participants"`
	RoomType            *string        `db:"room_type" json:"room_type,omitempty"`
	Status              string         `db:"status" json:"status"` // статус: "open", "full", "cancelled"
	Tags                pq.StringArray `db:"tags" json:"tags"`
	ImageURL            *string        `db:"image_url" json:"image_url,omitempty"`
	Rating              *float64       `db:"rating" json:"rating,omitempty"`
	TotalRatings        *int           `db:"total_ratings" json:"total_ratings,omitempty"`
	Season              *string        `db:"season" json:"season,omitempty"`
	Country             *string        `db:"country" json:"country,omitempty"`
	Featured            bool           `db:"featured" json:"featured"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
	// Поля организатора (заполняются JOIN-ом при выборке списка)
	OrganizerName             *string `db:"organizer_name" json:"organizer_name,omitempty"`
	OrganizerImageURL         *string `db:"organizer_image_url" json:"organizer_image_url,omitempty"`
	OrganizerIdentityVerified *bool   `db:"organizer_identity_verified" json:"organizer_identity_verified,omitempty"`
}

// TripParticipant представляет участие пользователя в поездке.
type TripParticipant struct {
	ID     int64  `db:"id" json:"id"`
	TripID int64  `db:"trip_id" json:"trip_id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Status string `db:"status" json:"status"` // статус: "pending", "confirmed", "rejected"
	// Поля профиля участника (заполняются JOIN-ом при выборке)
	Name            *string `db:"name" json:"name,omitempty"`
	ProfileImageURL *string `db:"profile_image_url" json:"profile_image_url,omitempty"`
}

// Destination представляет агрегат "популярное направление":
// сколько открытых поездок сгруппировано по месту назначения.
type Destination struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Image   string  `json:"image"`
	Trips   int     `json:"trips"`
	Rating  float64 `json:"rating"`
}
