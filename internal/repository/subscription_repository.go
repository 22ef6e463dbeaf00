package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SubscriptionRepository обеспечивает доступ к подписчикам рассылки о новых поездках.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository создает новый репозиторий подписок.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Subscribe добавляет Telegram-чат в список подписчиков (если еще не подписан).
func (r *SubscriptionRepository) Subscribe(chatID int64) error {
	_, err := r.db.Exec("INSERT INTO trip_subscriptions (chat_id) VALUES ($1) ON CONFLICT DO NOTHING", chatID)
	if err != nil {
		return fmt.Errorf("не удалось оформить подписку: %w", err)
	}
	return nil
}

// Unsubscribe удаляет чат из подписчиков.
func (r *SubscriptionRepository) Unsubscribe(chatID int64) error {
	_, err := r.db.Exec("DELETE FROM trip_subscriptions WHERE chat_id=$1", chatID)
	if err != nil {
		return fmt.Errorf("не удалось отменить подписку: %w", err)
	}
	return nil
}

// GetAllChatIDs возвращает chat ID всех подписчиков рассылки.
func (r *SubscriptionRepository) GetAllChatIDs() ([]int64, error) {
	ids := []int64{}
	err := r.db.Select(&ids, "SELECT chat_id FROM trip_subscriptions")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка подписчиков: %w", err)
	}
	return ids, nil
}
