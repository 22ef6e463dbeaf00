package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/BauthyBa/jetgo-private/internal/repository"
	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTrips обработчик для GET /api/trips - открытые поездки с необязательными фильтрами.
func (h *Handler) ListTrips(c *gin.Context) {
	filters := repository.TripFilters{
		Destination: c.Query("destination"),
		Season:      c.Query("season"),
		RoomType:    c.Query("room_type"),
		Country:     c.Query("country"),
	}
	if v := c.Query("budget_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.BudgetMin = f
		}
	}
	if v := c.Query("budget_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.BudgetMax = f
		}
	}
	if v := c.Query("tags"); v != "" {
		filters.Tags = strings.Split(v, ",")
	}
	trips, err := h.TripService.List(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить поездки"})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTrip обработчик для GET /api/trips/:id - одна поездка.
func (h *Handler) GetTrip(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	trip, err := h.TripService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить поездку"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

// MyTrips обработчик для GET /api/trips/mine - поездки, организованные пользователем.
func (h *Handler) MyTrips(c *gin.Context) {
	trips, err := h.TripService.ListMine(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить поездки"})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// CreateTrip обработчик для POST /api/trips - создает поездку.
func (h *Handler) CreateTrip(c *gin.Context) {
	var params service.CreateTripParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные поездки"})
		return
	}
	trip, err := h.TripService.Create(currentUserID(c), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать поездку"})
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// UpdateTrip обработчик для PUT /api/trips/:id - изменяет поездку организатора.
func (h *Handler) UpdateTrip(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var params service.UpdateTripParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные поездки"})
		return
	}
	trip, err := h.TripService.Update(currentUserID(c), id, params)
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTrip обработчик для DELETE /api/trips/:id - удаляет поездку организатора.
func (h *Handler) DeleteTrip(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.TripService.Delete(currentUserID(c), id); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// JoinTrip обработчик для POST /api/trips/:id/join - присоединяет пользователя к поездке.
func (h *Handler) JoinTrip(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.TripService.Join(id, currentUserID(c)); err != nil {
		if errors.Is(err, repository.ErrAlreadyParticipant) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось присоединиться к поездке"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": true})
}

// LeaveTrip обработчик для POST /api/trips/:id/leave - удаляет участие пользователя.
func (h *Handler) LeaveTrip(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.TripService.Leave(id, currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выйти из поездки"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

// TripParticipants обработчик для GET /api/trips/:id/participants - участники поездки.
func (h *Handler) TripParticipants(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	participants, err := h.TripService.Participants(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить участников"})
		return
	}
	c.JSON(http.StatusOK, participants)
}

// PopularDestinations обработчик для GET /api/destinations/popular.
func (h *Handler) PopularDestinations(c *gin.Context) {
	destinations, err := h.TripService.PopularDestinations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить направления"})
		return
	}
	c.JSON(http.StatusOK, destinations)
}
