package repository

import (
	"fmt"

	"github.com/BauthyBa/jetgo-private/internal/model"

	"github.com/jmoiron/sqlx"
)

// RoomRepository обеспечивает доступ к данным комнат и их участников в базе данных.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository создает новый репозиторий комнат.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListAll возвращает все комнаты, новые первыми. Без пагинации.
func (r *RoomRepository) ListAll() ([]model.Room, error) {
	rooms := []model.Room{}
	err := r.db.Select(&rooms, "SELECT * FROM rooms ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка комнат: %w", err)
	}
	return rooms, nil
}

// GetByID возвращает комнату по идентификатору.
func (r *RoomRepository) GetByID(id int64) (*model.Room, error) {
	var room model.Room
	err := r.db.Get(&room, "SELECT * FROM rooms WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Create создает новую комнату. Возвращает ID созданной комнаты.
func (r *RoomRepository) Create(room *model.Room) (int64, error) {
	query := `INSERT INTO rooms (name, description, created_by, is_private, max_members)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int64
	err := r.db.QueryRow(query, room.Name, room.Description, room.CreatedBy, room.IsPrivate, room.MaxMembers).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать комнату: %w", err)
	}
	return id, nil
}

// AddMember добавляет пользователя в комнату (если он еще не участник).
// Повторное вступление безопасно за счет ограничения уникальности.
func (r *RoomRepository) AddMember(roomID, userID int64, role string) error {
	_, err := r.db.Exec(
		"INSERT INTO room_members (room_id, user_id, role) VALUES ($1, $2, $3) ON CONFLICT (room_id, user_id) DO NOTHING",
		roomID, userID, role)
	if err != nil {
		return fmt.Errorf("не удалось вступить в комнату: %w", err)
	}
	return nil
}

// RemoveMember удаляет членство пользователя в комнате.
func (r *RoomRepository) RemoveMember(roomID, userID int64) error {
	_, err := r.db.Exec("DELETE FROM room_members WHERE room_id=$1 AND user_id=$2", roomID, userID)
	if err != nil {
		return fmt.Errorf("не удалось покинуть комнату: %w", err)
	}
	return nil
}

// ListMembers возвращает участников комнаты с именем и email из профиля,
// в порядке вступления.
func (r *RoomRepository) ListMembers(roomID int64) ([]model.RoomMember, error) {
	members := []model.RoomMember{}
	err := r.db.Select(&members,
		`SELECT m.id, m.room_id, m.user_id, m.role, m.joined_at, p.name, p.email
		 FROM room_members m
		 LEFT JOIN user_profiles p ON p.user_id = m.user_id
		 WHERE m.room_id=$1
		 ORDER BY m.joined_at`, roomID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении участников комнаты: %w", err)
	}
	return members, nil
}
