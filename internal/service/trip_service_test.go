package service

import (
	"testing"

	"github.com/BauthyBa/jetgo-private/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestNewTripFromParamsDefaults(t *testing.T) {
	desc := "Неделя в горах"
	tests := []struct {
		name   string
		params CreateTripParams
	}{
		{"минимальная форма", CreateTripParams{Destination: "Bariloche", MaxParticipants: 4}},
		{"полная форма", CreateTripParams{
			Destination:     "Cusco",
			Description:     &desc,
			MaxParticipants: 6,
			Tags:            []string{"trekking"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := newTripFromParams(9, tt.params)
			if trip.OrganizerID != 9 {
				t.Errorf("organizer_id = %d, ожидалось 9", trip.OrganizerID)
			}
			if trip.CurrentParticipants != 1 {
				t.Errorf("current_participants = %d, ожидалось 1", trip.CurrentParticipants)
			}
			if trip.Status != "open" {
				t.Errorf("статус = %q, ожидалось open", trip.Status)
			}
			if trip.Tags == nil {
				t.Error("теги должны быть пустым срезом, а не nil")
			}
			if trip.Destination != tt.params.Destination {
				t.Errorf("destination = %q", trip.Destination)
			}
			if trip.MaxParticipants != tt.params.MaxParticipants {
				t.Errorf("max_participants = %d", trip.MaxParticipants)
			}
		})
	}
}

func TestGroupDestinations(t *testing.T) {
	rows := []repository.DestinationRow{
		{Destination: "Bariloche", Country: strPtr("Argentina"), ImageURL: strPtr("/img/brc.jpg")},
		{Destination: "Mendoza", Country: strPtr("Argentina")},
		{Destination: "Bariloche", Country: strPtr("Argentina")},
		{Destination: "Cusco", Country: strPtr("Peru"), ImageURL: strPtr("")},
	}

	got := groupDestinations(rows)

	if len(got) != 3 {
		t.Fatalf("получено %d направлений, ожидалось 3", len(got))
	}
	if got[0].Name != "Bariloche" || got[0].Trips != 2 {
		t.Errorf("первое направление = %s (%d поездок), ожидалось Bariloche (2)", got[0].Name, got[0].Trips)
	}
	if got[0].Image != "/img/brc.jpg" {
		t.Errorf("изображение = %q, ожидалось изображение первой поездки", got[0].Image)
	}
	if got[1].Name != "Mendoza" || got[1].Trips != 1 {
		t.Errorf("второе направление = %s (%d)", got[1].Name, got[1].Trips)
	}
	// Пустое изображение заменяется заглушкой
	if got[2].Image != "/placeholder.svg" {
		t.Errorf("изображение Cusco = %q, ожидалась заглушка", got[2].Image)
	}
	if got[2].Country != "Peru" {
		t.Errorf("страна Cusco = %q", got[2].Country)
	}
}

func TestGroupDestinationsEmpty(t *testing.T) {
	got := groupDestinations(nil)
	if got == nil {
		t.Fatal("ожидался пустой срез, а не nil")
	}
	if len(got) != 0 {
		t.Errorf("получено %d направлений из пустого списка", len(got))
	}
}
