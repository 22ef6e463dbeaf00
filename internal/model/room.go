package model

import "time"

// Room представляет групповой чат (комнату) с участниками и сообщениями.
type Room struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	IsPrivate   bool      `db:"is_private" json:"is_private"`
	MaxMembers  int       `db:"max_members" json:"max_members"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RoomMember представляет членство пользователя в комнате.
// На пару (room_id, user_id) допускается не более одной записи.
type RoomMember struct {
	ID       int64     `db:"id" json:"id"`
	RoomID   int64     `db:"room_id" json:"room_id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	Role     string    `db:"role" json:"role"` // роль: "admin", "moderator", "member"
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
	// Поля профиля участника (заполняются JOIN-ом при выборке)
	Name  *string `db:"name" json:"name,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
}
