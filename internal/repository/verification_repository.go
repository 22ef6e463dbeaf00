package repository

import (
	"fmt"

	"github.com/BauthyBa/jetgo-private/internal/model"

	"github.com/jmoiron/sqlx"
)

// VerificationRepository обеспечивает доступ к токенам подтверждения email.
type VerificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository создает новый репозиторий токенов подтверждения.
func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Upsert сохраняет токен подтверждения для пользователя, заменяя прежний.
func (r *VerificationRepository) Upsert(userID int64, email, token string) error {
	_, err := r.db.Exec(`INSERT INTO email_verifications (user_id, email, verification_token, verified)
	        VALUES ($1, $2, $3, false)
	        ON CONFLICT (user_id) DO UPDATE
	        SET email=EXCLUDED.email, verification_token=EXCLUDED.verification_token,
	            verified=false, created_at=NOW()`,
		userID, email, token)
	if err != nil {
		return fmt.Errorf("не удалось сохранить токен подтверждения: %w", err)
	}
	return nil
}

// GetByToken ищет запись подтверждения по токену. Возвращает sql.ErrNoRows, если не найдена.
func (r *VerificationRepository) GetByToken(token string) (*model.EmailVerification, error) {
	var v model.EmailVerification
	err := r.db.Get(&v, "SELECT * FROM email_verifications WHERE verification_token=$1", token)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkVerified отмечает запись подтверждения как использованную.
func (r *VerificationRepository) MarkVerified(id int64) error {
	_, err := r.db.Exec("UPDATE email_verifications SET verified=true WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("не удалось отметить подтверждение: %w", err)
	}
	return nil
}
