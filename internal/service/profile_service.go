package service

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BauthyBa/jetgo-private/internal/model"
	"github.com/BauthyBa/jetgo-private/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrProfileNotFound возвращается, когда у пользователя нет профиля.
	ErrProfileNotFound = errors.New("профиль не найден")
	// ErrUnsupportedImage возвращается для файлов недопустимого формата.
	ErrUnsupportedImage = errors.New("допустимы только изображения jpg, jpeg, png или webp")
)

// UpdateProfileParams содержит редактируемые поля профиля.
type UpdateProfileParams struct {
	Name               string   `json:"name" binding:"required"`
	Age                *int     `json:"age"`
	DocumentType       *string  `json:"document_type"`
	DocumentNumber     *string  `json:"document_number"`
	Interests          []string `json:"interests"`
	PreferredCountries []string `json:"preferred_countries"`
	RoomPreference     *string  `json:"room_preference"`
}

// ProfileService содержит логику работы с профилями и фото профиля.
type ProfileService struct {
	userRepo      *repository.UserRepository
	uploadDir     string // каталог для загруженных файлов
	publicBaseURL string // базовый URL, по которому файлы доступны снаружи
}

// NewProfileService создает новый сервис профилей.
func NewProfileService(userRepo *repository.UserRepository, uploadDir, publicBaseURL string) *ProfileService {
	return &ProfileService{userRepo: userRepo, uploadDir: uploadDir, publicBaseURL: publicBaseURL}
}

// Get возвращает профиль пользователя.
func (s *ProfileService) Get(userID int64) (*model.UserProfile, error) {
	profile, err := s.userRepo.GetProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("ошибка при получении профиля: %w", err)
	}
	return profile, nil
}

// Update обновляет редактируемые поля профиля и возвращает новое состояние.
func (s *ProfileService) Update(userID int64, p UpdateProfileParams) (*model.UserProfile, error) {
	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	profile.Name = p.Name
	profile.Age = p.Age
	profile.DocumentType = p.DocumentType
	profile.DocumentNumber = p.DocumentNumber
	if p.Interests != nil {
		profile.Interests = pq.StringArray(p.Interests)
	}
	if p.PreferredCountries != nil {
		profile.PreferredCountries = pq.StringArray(p.PreferredCountries)
	}
	profile.RoomPreference = p.RoomPreference
	if err := s.userRepo.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// UploadImage сохраняет фото профиля на диск по пути, привязанному к
// пользователю, с семантикой upsert: прежние файлы пользователя удаляются.
// Возвращает публичный URL сохраненного файла.
func (s *ProfileService) UploadImage(userID int64, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", ErrUnsupportedImage
	}
	userDir := filepath.Join(s.uploadDir, strconv.FormatInt(userID, 10))
	// Прежнее фото заменяется новым
	if err := os.RemoveAll(userDir); err != nil {
		return "", fmt.Errorf("не удалось очистить каталог пользователя: %w", err)
	}
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать каталог пользователя: %w", err)
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(userDir, name))
	if err != nil {
		return "", fmt.Errorf("не удалось создать файл: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("не удалось сохранить файл: %w", err)
	}
	url := fmt.Sprintf("%s/uploads/%d/%s", s.publicBaseURL, userID, name)
	if err := s.userRepo.SetProfileImageURL(userID, url); err != nil {
		return "", err
	}
	return url, nil
}
