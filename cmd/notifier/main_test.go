package main

import (
	"strings"
	"testing"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/model"
)

func TestLatestTripIDAdvancesByID(t *testing.T) {
	now := time.Now()
	// Одинаковый created_at у обеих поездок: отметка по времени создания
	// пропустила бы вторую, отметка по идентификатору точна
	trips := []model.Trip{
		{ID: 5, Destination: "Bariloche", CreatedAt: now},
		{ID: 8, Destination: "Mendoza", CreatedAt: now},
	}
	if got := latestTripID(2, trips); got != 8 {
		t.Errorf("отметка = %d, ожидалось 8", got)
	}
	if got := latestTripID(8, nil); got != 8 {
		t.Errorf("пустая порция не должна менять отметку, получено %d", got)
	}
}

func TestFormatTrip(t *testing.T) {
	country := "Argentina"
	start := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	budgetMin, budgetMax := 200.0, 500.0
	trip := &model.Trip{
		Destination:     "Bariloche",
		Country:         &country,
		StartDate:       &start,
		BudgetMin:       &budgetMin,
		BudgetMax:       &budgetMax,
		MaxParticipants: 4,
	}
	text := formatTrip(trip)
	for _, want := range []string{"Bariloche", "(Argentina)", "15.09.2026", "200-500", "Мест: 4"} {
		if !strings.Contains(text, want) {
			t.Errorf("в тексте уведомления нет %q:\n%s", want, text)
		}
	}
}
