package repository

import (
	"fmt"

	"github.com/BauthyBa/jetgo-private/internal/model"

	"github.com/jmoiron/sqlx"
)

// MessageRepository обеспечивает сохранение и получение сообщений чата из базы данных.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создает новый репозиторий сообщений.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет новое сообщение. Возвращает ID созданного сообщения.
func (r *MessageRepository) Create(msg *model.ChatMessage) (int64, error) {
	query := `INSERT INTO chat_messages (room_id, sender_id, content, message_type)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.QueryRow(query, msg.RoomID, msg.SenderID, msg.Content, msg.MessageType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка при сохранении сообщения: %w", err)
	}
	return id, nil
}

// ListRecent возвращает до limit сообщений комнаты, старые первыми.
func (r *MessageRepository) ListRecent(roomID int64, limit int) ([]model.ChatMessage, error) {
	messages := []model.ChatMessage{}
	err := r.db.Select(&messages,
		"SELECT * FROM chat_messages WHERE room_id=$1 ORDER BY id LIMIT $2", roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении сообщений: %w", err)
	}
	return messages, nil
}

// ListAfter возвращает сообщения комнаты с идентификатором строго больше afterID,
// по возрастанию. Используется циклом опроса для дозагрузки только новых сообщений.
func (r *MessageRepository) ListAfter(roomID, afterID int64) ([]model.ChatMessage, error) {
	messages := []model.ChatMessage{}
	err := r.db.Select(&messages,
		"SELECT * FROM chat_messages WHERE room_id=$1 AND id > $2 ORDER BY id", roomID, afterID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке новых сообщений: %w", err)
	}
	return messages, nil
}
