package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/cache"
	"github.com/BauthyBa/jetgo-private/internal/model"
	"github.com/BauthyBa/jetgo-private/internal/repository"

	"github.com/lib/pq"
)

// ErrTripNotFound возвращается, когда поездка не существует.
var ErrTripNotFound = errors.New("поездка не найдена")

const destinationsCacheKey = "popular_destinations"

// CreateTripParams содержит данные формы создания поездки.
type CreateTripParams struct {
	Destination     string     `json:"destination" binding:"required"`
	Description     *string    `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	BudgetMin       *float64   `json:"budget_min"`
	BudgetMax       *float64   `json:"budget_max"`
	MaxParticipants int        `json:"max_participants" binding:"required,min=1"`
	RoomType        *string    `json:"room_type"`
	Tags            []string   `json:"tags"`
	ImageURL        *string    `json:"image_url"`
	Season          *string    `json:"season"`
	Country         *string    `json:"country"`
}

// UpdateTripParams содержит изменяемые поля поездки; nil означает "не менять".
type UpdateTripParams struct {
	Destination     *string    `json:"destination"`
	Description     *string    `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	BudgetMin       *float64   `json:"budget_min"`
	BudgetMax       *float64   `json:"budget_max"`
	MaxParticipants *int       `json:"max_participants"`
	RoomType        *string    `json:"room_type"`
	Status          *string    `json:"status"`
	Tags            []string   `json:"tags"`
	ImageURL        *string    `json:"image_url"`
	Season          *string    `json:"season"`
	Country         *string    `json:"country"`
}

// TripService содержит бизнес-логику, связанную с поездками.
type TripService struct {
	tripRepo *repository.TripRepository
	cache    *cache.Cache // nil, если Redis не настроен
}

// NewTripService создает новый сервис поездок.
func NewTripService(tripRepo *repository.TripRepository, c *cache.Cache) *TripService {
	return &TripService{tripRepo: tripRepo, cache: c}
}

// List возвращает открытые поездки по заданным фильтрам.
func (s *TripService) List(f repository.TripFilters) ([]model.Trip, error) {
	return s.tripRepo.FindByFilters(f)
}

// Get возвращает поездку по идентификатору.
func (s *TripService) Get(id int64) (*model.Trip, error) {
	trip, err := s.tripRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("ошибка при получении поездки: %w", err)
	}
	return trip, nil
}

// ListMine возвращает поездки, организованные пользователем.
func (s *TripService) ListMine(userID int64) ([]model.Trip, error) {
	return s.tripRepo.ListByOrganizer(userID)
}

// Create создает поездку. Организатор всегда считается первым участником,
// а статус новой поездки всегда "open", независимо от входных данных.
func (s *TripService) Create(userID int64, p CreateTripParams) (*model.Trip, error) {
	trip := newTripFromParams(userID, p)
	id, err := s.tripRepo.Create(trip)
	if err != nil {
		return nil, err
	}
	trip.ID = id
	s.invalidateDestinations()
	return trip, nil
}

// newTripFromParams собирает новую поездку из данных формы: организатор
// всегда первый участник, статус всегда "open".
func newTripFromParams(userID int64, p CreateTripParams) *model.Trip {
	trip := &model.Trip{
		OrganizerID:         userID,
		Destination:         p.Destination,
		Description:         p.Description,
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		BudgetMin:           p.BudgetMin,
		BudgetMax:           p.BudgetMax,
		MaxParticipants:     p.MaxParticipants,
		CurrentParticipants: 1,
		RoomType:            p.RoomType,
		Status:              "open",
		Tags:                pq.StringArray(p.Tags),
		ImageURL:            p.ImageURL,
		Season:              p.Season,
		Country:             p.Country,
	}
	if trip.Tags == nil {
		trip.Tags = pq.StringArray{}
	}
	return trip
}

// Update изменяет поездку организатора, применяя только переданные поля.
func (s *TripService) Update(userID, tripID int64, p UpdateTripParams) (*model.Trip, error) {
	trip, err := s.Get(tripID)
	if err != nil {
		return nil, err
	}
	if p.Destination != nil {
		trip.Destination = *p.Destination
	}
	if p.Description != nil {
		trip.Description = p.Description
	}
	if p.StartDate != nil {
		trip.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		trip.EndDate = p.EndDate
	}
	if p.BudgetMin != nil {
		trip.BudgetMin = p.BudgetMin
	}
	if p.BudgetMax != nil {
		trip.BudgetMax = p.BudgetMax
	}
	if p.MaxParticipants != nil {
		trip.MaxParticipants = *p.MaxParticipants
	}
	if p.RoomType != nil {
		trip.RoomType = p.RoomType
	}
	if p.Status != nil {
		trip.Status = *p.Status
	}
	if p.Tags != nil {
		trip.Tags = pq.StringArray(p.Tags)
	}
	if p.ImageURL != nil {
		trip.ImageURL = p.ImageURL
	}
	if p.Season != nil {
		trip.Season = p.Season
	}
	if p.Country != nil {
		trip.Country = p.Country
	}
	trip.OrganizerID = userID // репозиторий проверяет, что пользователь - организатор
	if err := s.tripRepo.Update(trip); err != nil {
		return nil, err
	}
	s.invalidateDestinations()
	return trip, nil
}

// Delete удаляет поездку организатора.
func (s *TripService) Delete(userID, tripID int64) error {
	if err := s.tripRepo.Delete(tripID, userID); err != nil {
		return err
	}
	s.invalidateDestinations()
	return nil
}

// Join добавляет пользователя как участника поездки.
func (s *TripService) Join(tripID, userID int64) error {
	return s.tripRepo.AddParticipant(tripID, userID)
}

// Leave удаляет участие пользователя в поездке.
func (s *TripService) Leave(tripID, userID int64) error {
	return s.tripRepo.RemoveParticipant(tripID, userID)
}

// Participants возвращает участников поездки с данными профиля.
func (s *TripService) Participants(tripID int64) ([]model.TripParticipant, error) {
	return s.tripRepo.ListParticipants(tripID)
}

// PopularDestinations возвращает направления открытых поездок, сгруппированные
// по месту назначения, с кэшированием результата.
func (s *TripService) PopularDestinations(ctx context.Context) ([]model.Destination, error) {
	if s.cache != nil {
		var cached []model.Destination
		hit, err := s.cache.Get(ctx, destinationsCacheKey, &cached)
		if err != nil {
			log.Printf("Ошибка чтения кэша направлений: %v", err)
		}
		if hit {
			return cached, nil
		}
	}
	rows, err := s.tripRepo.ListOpenDestinations()
	if err != nil {
		return nil, err
	}
	destinations := groupDestinations(rows)
	if s.cache != nil {
		if err := s.cache.Set(ctx, destinationsCacheKey, destinations); err != nil {
			log.Printf("Ошибка записи кэша направлений: %v", err)
		}
	}
	return destinations, nil
}

// groupDestinations группирует открытые поездки по месту назначения,
// считая число поездок. Порядок первого появления сохраняется.
func groupDestinations(rows []repository.DestinationRow) []model.Destination {
	index := make(map[string]int)
	destinations := []model.Destination{}
	for _, row := range rows {
		if i, ok := index[row.Destination]; ok {
			destinations[i].Trips++
			continue
		}
		d := model.Destination{
			Name:   row.Destination,
			Image:  "/placeholder.svg",
			Trips:  1,
			Rating: 4.7, // усредненный рейтинг-заглушка
		}
		if row.Country != nil {
			d.Country = *row.Country
		}
		if row.ImageURL != nil && *row.ImageURL != "" {
			d.Image = *row.ImageURL
		}
		index[row.Destination] = len(destinations)
		destinations = append(destinations, d)
	}
	return destinations
}

func (s *TripService) invalidateDestinations() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.Background(), destinationsCacheKey); err != nil {
		log.Printf("Ошибка сброса кэша направлений: %v", err)
	}
}
