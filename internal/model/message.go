package model

import "time"

// ChatMessage представляет сообщение в комнате. Сообщения только добавляются,
// никогда не редактируются и не удаляются. Идентификаторы монотонно растут
// (bigserial), что делает корректной выборку "строго больше отметки" при опросе.
type ChatMessage struct {
	ID          int64     `db:"id" json:"id"`
	RoomID      int64     `db:"room_id" json:"room_id"`
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	Content     string    `db:"content" json:"content"`
	MessageType string    `db:"message_type" json:"message_type"` // тип: "text", "image", "file", "system"
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
