package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BauthyBa/jetgo-private/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrAlreadyParticipant возвращается при повторной попытке присоединиться к поездке.
var ErrAlreadyParticipant = errors.New("пользователь уже участвует в поездке")

// TripFilters задает необязательные фильтры выборки поездок.
type TripFilters struct {
	Destination string   // подстрока места назначения (без учета регистра)
	Season      string
	BudgetMin   float64  // нижняя граница бюджета (budget_min >= значения)
	BudgetMax   float64  // верхняя граница бюджета (budget_max <= значения)
	RoomType    string
	Country     string
	Tags        []string // пересечение с тегами поездки
}

// TripRepository обеспечивает доступ к данным поездок и участников в базе данных.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository создает новый репозиторий поездок.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// FindByFilters возвращает открытые поездки по заданным фильтрам,
// сначала рекомендуемые, затем новые. К каждой поездке подтягиваются
// имя, фото и статус подтверждения личности организатора.
func (r *TripRepository) FindByFilters(f TripFilters) ([]model.Trip, error) {
	query, args := buildTripFilterQuery(f)
	trips := []model.Trip{}
	if err := r.db.Select(&trips, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка при поиске поездок: %w", err)
	}
	return trips, nil
}

// buildTripFilterQuery собирает запрос выборки открытых поездок по фильтрам.
func buildTripFilterQuery(f TripFilters) (string, []interface{}) {
	query := `SELECT t.*, p.name AS organizer_name, p.profile_image_url AS organizer_image_url,
	                 p.identity_verified AS organizer_identity_verified
	          FROM trips t
	          LEFT JOIN user_profiles p ON p.user_id = t.organizer_id
	          WHERE t.status='open'`
	args := []interface{}{}
	if f.Destination != "" {
		query += " AND t.destination ILIKE ?"
		args = append(args, "%"+strings.TrimSpace(f.Destination)+"%")
	}
	if f.Season != "" {
		query += " AND t.season = ?"
		args = append(args, f.Season)
	}
	if f.BudgetMin > 0 {
		query += " AND t.budget_min >= ?"
		args = append(args, f.BudgetMin)
	}
	if f.BudgetMax > 0 {
		query += " AND t.budget_max <= ?"
		args = append(args, f.BudgetMax)
	}
	if f.RoomType != "" {
		query += " AND t.room_type = ?"
		args = append(args, f.RoomType)
	}
	if f.Country != "" {
		query += " AND t.country = ?"
		args = append(args, f.Country)
	}
	if len(f.Tags) > 0 {
		query += " AND t.tags && ?"
		args = append(args, pq.Array(f.Tags))
	}
	query += " ORDER BY t.featured DESC, t.created_at DESC"
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// GetByID возвращает поездку по идентификатору.
func (r *TripRepository) GetByID(id int64) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.Get(&trip,
		`SELECT t.*, p.name AS organizer_name, p.profile_image_url AS organizer_image_url,
		        p.identity_verified AS organizer_identity_verified
		 FROM trips t
		 LEFT JOIN user_profiles p ON p.user_id = t.organizer_id
		 WHERE t.id=$1`, id)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListByOrganizer возвращает поездки, организованные пользователем, новые первыми.
func (r *TripRepository) ListByOrganizer(userID int64) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := r.db.Select(&trips,
		"SELECT * FROM trips WHERE organizer_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении поездок пользователя: %w", err)
	}
	return trips, nil
}

// Create создает новую поездку. Возвращает ID созданной поездки.
func (r *TripRepository) Create(t *model.Trip) (int64, error) {
	query := `INSERT INTO trips
	          (organizer_id, destination, description, start_date, end_date, budget_min, budget_max,
	           max_participants, current_participants, room_type, status, tags, image_url, season, country, featured)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`
	var id int64
	err := r.db.QueryRow(query, t.OrganizerID, t.Destination, t.Description, t.StartDate, t.EndDate,
		t.BudgetMin, t.BudgetMax, t.MaxParticipants, t.CurrentParticipants, t.RoomType, t.Status,
		t.Tags, t.ImageURL, t.Season, t.Country, t.Featured).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать поездку: %w", err)
	}
	return id, nil
}

// Update обновляет редактируемые поля поездки. Разрешено только организатору.
func (r *TripRepository) Update(t *model.Trip) error {
	res, err := r.db.Exec(`UPDATE trips
	        SET destination=$1, description=$2, start_date=$3, end_date=$4, budget_min=$5, budget_max=$6,
	            max_participants=$7, room_type=$8, status=$9, tags=$10, image_url=$11, season=$12, country=$13,
	            updated_at=NOW()
	        WHERE id=$14 AND organizer_id=$15`,
		t.Destination, t.Description, t.StartDate, t.EndDate, t.BudgetMin, t.BudgetMax,
		t.MaxParticipants, t.RoomType, t.Status, t.Tags, t.ImageURL, t.Season, t.Country,
		t.ID, t.OrganizerID)
	if err != nil {
		return fmt.Errorf("не удалось обновить поездку: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("поездка не найдена или пользователь не является организатором")
	}
	return nil
}

// Delete удаляет поездку организатора.
func (r *TripRepository) Delete(id, organizerID int64) error {
	res, err := r.db.Exec("DELETE FROM trips WHERE id=$1 AND organizer_id=$2", id, organizerID)
	if err != nil {
		return fmt.Errorf("не удалось удалить поездку: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("поездка не найдена или пользователь не является организатором")
	}
	return nil
}

// AddParticipant добавляет участника со статусом "pending" и пересчитывает
// счетчик участников в одной транзакции. Повторное присоединение
// отклоняется ограничением уникальности, а не предварительной проверкой,
// поэтому гонка двух одновременных вступлений невозможна.
func (r *TripRepository) AddParticipant(tripID, userID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.Exec(
		"INSERT INTO trip_participants (trip_id, user_id, status) VALUES ($1, $2, 'pending') ON CONFLICT (trip_id, user_id) DO NOTHING",
		tripID, userID)
	if err != nil {
		return fmt.Errorf("не удалось присоединиться к поездке: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyParticipant
	}
	if err := recountParticipants(tx, tripID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveParticipant удаляет участника и пересчитывает счетчик в одной транзакции.
func (r *TripRepository) RemoveParticipant(tripID, userID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM trip_participants WHERE trip_id=$1 AND user_id=$2", tripID, userID); err != nil {
		return fmt.Errorf("не удалось выйти из поездки: %w", err)
	}
	if err := recountParticipants(tx, tripID); err != nil {
		return err
	}
	return tx.Commit()
}

// recountParticipants записывает в trips.current_participants число
// подтвержденных участников плюс организатор.
func recountParticipants(tx *sqlx.Tx, tripID int64) error {
	var confirmed int
	if err := tx.Get(&confirmed,
		"SELECT COUNT(*) FROM trip_participants WHERE trip_id=$1 AND status='confirmed'", tripID); err != nil {
		return fmt.Errorf("не удалось посчитать участников: %w", err)
	}
	if _, err := tx.Exec(
		"UPDATE trips SET current_participants=$1, updated_at=NOW() WHERE id=$2", confirmed+1, tripID); err != nil {
		return fmt.Errorf("не удалось обновить счетчик участников: %w", err)
	}
	return nil
}

// ListParticipants возвращает участников поездки с именем и фото из профиля.
func (r *TripRepository) ListParticipants(tripID int64) ([]model.TripParticipant, error) {
	participants := []model.TripParticipant{}
	err := r.db.Select(&participants,
		`SELECT tp.id, tp.trip_id, tp.user_id, tp.status, p.name, p.profile_image_url
		 FROM trip_participants tp
		 LEFT JOIN user_profiles p ON p.user_id = tp.user_id
		 WHERE tp.trip_id=$1
		 ORDER BY tp.id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении участников поездки: %w", err)
	}
	return participants, nil
}

// DestinationRow хранит поля, нужные для агрегации популярных направлений.
type DestinationRow struct {
	Destination string  `db:"destination"`
	Country     *string `db:"country"`
	ImageURL    *string `db:"image_url"`
}

// ListOpenDestinations возвращает места назначения всех открытых поездок.
func (r *TripRepository) ListOpenDestinations() ([]DestinationRow, error) {
	rows := []DestinationRow{}
	err := r.db.Select(&rows,
		"SELECT destination, country, image_url FROM trips WHERE status='open' ORDER BY destination")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении направлений: %w", err)
	}
	return rows, nil
}

// ListOpenAfterID возвращает открытые поездки с идентификатором строго больше
// afterID, по возрастанию. Используется рассыльщиком уведомлений: bigserial
// монотонно растет, поэтому выборка точна даже при совпадающих created_at.
func (r *TripRepository) ListOpenAfterID(afterID int64) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := r.db.Select(&trips,
		"SELECT * FROM trips WHERE status='open' AND id > $1 ORDER BY id", afterID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении новых поездок: %w", err)
	}
	return trips, nil
}

// LatestID возвращает наибольший идентификатор поездки (0, если поездок нет).
func (r *TripRepository) LatestID() (int64, error) {
	var id int64
	if err := r.db.Get(&id, "SELECT COALESCE(MAX(id), 0) FROM trips"); err != nil {
		return 0, fmt.Errorf("ошибка при получении последней поездки: %w", err)
	}
	return id, nil
}
