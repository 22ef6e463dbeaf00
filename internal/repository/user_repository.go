package repository

import (
	"fmt"

	"github.com/BauthyBa/jetgo-private/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserRepository обеспечивает доступ к данным пользователей и их профилей в базе данных.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт новый репозиторий пользователей.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create добавляет нового пользователя. Возвращает ID созданного пользователя.
func (r *UserRepository) Create(user *model.User) (int64, error) {
	query := `INSERT INTO users (email, password_hash, verified) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	err := r.db.QueryRow(query, user.Email, user.PasswordHash, user.Verified).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать пользователя: %w", err)
	}
	return id, nil
}

// GetByEmail ищет пользователя по email. Возвращает sql.ErrNoRows, если не найден.
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Get(&user, "SELECT * FROM users WHERE email=$1", email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID возвращает пользователя по внутреннему идентификатору.
func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Get(&user, "SELECT * FROM users WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetVerified отмечает email пользователя как подтвержденный.
func (r *UserRepository) SetVerified(userID int64) error {
	_, err := r.db.Exec("UPDATE users SET verified=true WHERE id=$1", userID)
	if err != nil {
		return fmt.Errorf("не удалось подтвердить пользователя: %w", err)
	}
	return nil
}

// CreateProfile создает профиль пользователя. Возвращает ID профиля.
func (r *UserRepository) CreateProfile(p *model.UserProfile) (int64, error) {
	// Колонки-массивы не допускают NULL
	if p.Interests == nil {
		p.Interests = pq.StringArray{}
	}
	if p.PreferredCountries == nil {
		p.PreferredCountries = pq.StringArray{}
	}
	query := `INSERT INTO user_profiles
	          (user_id, name, email, age, document_type, document_number, interests,
	           preferred_countries, room_preference, verified, identity_verified, profile_image_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	var id int64
	err := r.db.QueryRow(query, p.UserID, p.Name, p.Email, p.Age, p.DocumentType, p.DocumentNumber,
		p.Interests, p.PreferredCountries, p.RoomPreference, p.Verified, p.IdentityVerified, p.ProfileImageURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать профиль: %w", err)
	}
	return id, nil
}

// GetProfileByUserID возвращает профиль пользователя. Возвращает sql.ErrNoRows, если профиля нет.
func (r *UserRepository) GetProfileByUserID(userID int64) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.Get(&profile, "SELECT * FROM user_profiles WHERE user_id=$1", userID)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile обновляет редактируемые поля профиля.
func (r *UserRepository) UpdateProfile(p *model.UserProfile) error {
	_, err := r.db.Exec(`UPDATE user_profiles
	        SET name=$1, age=$2, document_type=$3, document_number=$4, interests=$5,
	            preferred_countries=$6, room_preference=$7, updated_at=NOW()
	        WHERE user_id=$8`,
		p.Name, p.Age, p.DocumentType, p.DocumentNumber, p.Interests,
		p.PreferredCountries, p.RoomPreference, p.UserID)
	if err != nil {
		return fmt.Errorf("не удалось обновить профиль: %w", err)
	}
	return nil
}

// SetProfileImageURL сохраняет ссылку на загруженное фото профиля.
func (r *UserRepository) SetProfileImageURL(userID int64, url string) error {
	_, err := r.db.Exec("UPDATE user_profiles SET profile_image_url=$1, updated_at=NOW() WHERE user_id=$2", url, userID)
	if err != nil {
		return fmt.Errorf("не удалось сохранить фото профиля: %w", err)
	}
	return nil
}

// SetProfileVerified отмечает email в профиле как подтвержденный.
func (r *UserRepository) SetProfileVerified(userID int64) error {
	_, err := r.db.Exec("UPDATE user_profiles SET verified=true, updated_at=NOW() WHERE user_id=$1", userID)
	if err != nil {
		return fmt.Errorf("не удалось отметить профиль подтвержденным: %w", err)
	}
	return nil
}

// SetIdentityVerified отмечает личность пользователя как подтвержденную.
func (r *UserRepository) SetIdentityVerified(userID int64) error {
	_, err := r.db.Exec("UPDATE user_profiles SET identity_verified=true, updated_at=NOW() WHERE user_id=$1", userID)
	if err != nil {
		return fmt.Errorf("не удалось отметить подтверждение личности: %w", err)
	}
	return nil
}
