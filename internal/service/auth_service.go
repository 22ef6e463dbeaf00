package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/mail"

	"github.com/BauthyBa/jetgo-private/internal/model"
	"github.com/BauthyBa/jetgo-private/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken возвращается при регистрации на уже занятый email.
	ErrEmailTaken = errors.New("пользователь с таким email уже зарегистрирован")
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	// ErrEmailNotVerified возвращается при входе без подтвержденного email.
	ErrEmailNotVerified = errors.New("email не подтвержден")
	// ErrInvalidVerificationToken возвращается для неизвестного токена подтверждения.
	ErrInvalidVerificationToken = errors.New("недействительный токен подтверждения")
)

const bcryptCost = 12

// RegisterParams содержит данные формы регистрации, включая поля будущего профиля.
type RegisterParams struct {
	Email              string   `json:"email" binding:"required"`
	Password           string   `json:"password" binding:"required,min=8"`
	Name               string   `json:"name" binding:"required"`
	Age                *int     `json:"age"`
	DocumentType       *string  `json:"document_type"`
	DocumentNumber     *string  `json:"document_number"`
	Interests          []string `json:"interests"`
	PreferredCountries []string `json:"preferred_countries"`
	RoomPreference     *string  `json:"room_preference"`
}

// TokenPair содержит выпущенные токены доступа и обновления.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService отвечает за регистрацию, вход и подтверждение email.
type AuthService struct {
	userRepo         *repository.UserRepository
	verificationRepo *repository.VerificationRepository
	jwt              *JWTManager
	frontendURL      string
}

// NewAuthService создает новый сервис аутентификации.
func NewAuthService(userRepo *repository.UserRepository, verificationRepo *repository.VerificationRepository,
	jwt *JWTManager, frontendURL string) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		jwt:              jwt,
		frontendURL:      frontendURL,
	}
}

// Register регистрирует нового пользователя: сохраняет учетную запись и
// черновик профиля, создает токен подтверждения и пишет ссылку подтверждения
// в лог (реальная отправка письма выполняется внешним сервисом).
func (s *AuthService) Register(p RegisterParams) (*model.User, error) {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, fmt.Errorf("некорректный email")
	}
	if _, err := s.userRepo.GetByEmail(p.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("не удалось захэшировать пароль: %w", err)
	}
	user := &model.User{Email: p.Email, PasswordHash: string(hash)}
	id, err := s.userRepo.Create(user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	// Черновик профиля: verified станет true после подтверждения email
	profile := &model.UserProfile{
		UserID:             id,
		Name:               p.Name,
		Email:              p.Email,
		Age:                p.Age,
		DocumentType:       p.DocumentType,
		DocumentNumber:     p.DocumentNumber,
		Interests:          pq.StringArray(p.Interests),
		PreferredCountries: pq.StringArray(p.PreferredCountries),
		RoomPreference:     p.RoomPreference,
	}
	if _, err := s.userRepo.CreateProfile(profile); err != nil {
		return nil, err
	}
	if err := s.issueVerification(id, p.Email); err != nil {
		return nil, err
	}
	return user, nil
}

// Login проверяет пару email/пароль и выпускает токены. Вход возможен только
// после подтверждения email.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, ErrEmailNotVerified
	}
	return s.issueTokens(user)
}

// Refresh выпускает новую пару токенов по действующему токену обновления.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.issueTokens(user)
}

// VerifyEmail обменивает токен подтверждения: отмечает пользователя и его
// профиль подтвержденными. Если профиля еще нет (учетная запись создана до
// появления формы регистрации с полями профиля), он создается из данных токена.
func (s *AuthService) VerifyEmail(token string) error {
	v, err := s.verificationRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidVerificationToken
		}
		return fmt.Errorf("ошибка при поиске токена: %w", err)
	}
	if err := s.verificationRepo.MarkVerified(v.ID); err != nil {
		return err
	}
	if err := s.userRepo.SetVerified(v.UserID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetProfileByUserID(v.UserID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("ошибка при поиске профиля: %w", err)
		}
		profile := &model.UserProfile{UserID: v.UserID, Email: v.Email, Verified: true}
		if _, err := s.userRepo.CreateProfile(profile); err != nil {
			// Продолжаем даже при ошибке создания профиля, как и исходный callback
			log.Printf("Не удалось создать профиль пользователя %d: %v", v.UserID, err)
		}
		return nil
	}
	return s.userRepo.SetProfileVerified(v.UserID)
}

// ResendVerification создает новый токен подтверждения для пользователя.
func (s *AuthService) ResendVerification(userID int64) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("пользователь не найден")
	}
	if user.Verified {
		return fmt.Errorf("email уже подтвержден")
	}
	return s.issueVerification(user.ID, user.Email)
}

// ValidateAccess проверяет токен доступа (используется HTTP-middleware).
func (s *AuthService) ValidateAccess(token string) (*JWTClaims, error) {
	return s.jwt.ValidateAccessToken(token)
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("не удалось выпустить токен доступа: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("не удалось выпустить токен обновления: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
	}, nil
}

func (s *AuthService) issueVerification(userID int64, email string) error {
	token := uuid.NewString()
	if err := s.verificationRepo.Upsert(userID, email, token); err != nil {
		return err
	}
	log.Printf("Ссылка подтверждения email для %s: %s/verify-email?token=%s", email, s.frontendURL, token)
	return nil
}
