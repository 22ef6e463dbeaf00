package repository

import (
	"strings"
	"testing"
)

func TestBuildTripFilterQueryNoFilters(t *testing.T) {
	query, args := buildTripFilterQuery(TripFilters{})
	if len(args) != 0 {
		t.Errorf("без фильтров получено %d аргументов", len(args))
	}
	if !strings.Contains(query, "t.status='open'") {
		t.Error("запрос должен выбирать только открытые поездки")
	}
	if !strings.Contains(query, "ORDER BY t.featured DESC, t.created_at DESC") {
		t.Error("запрос должен сортировать рекомендуемые поездки первыми")
	}
	if strings.Contains(query, "?") {
		t.Error("плейсхолдеры не приведены к формату PostgreSQL")
	}
}

func TestBuildTripFilterQueryAllFilters(t *testing.T) {
	query, args := buildTripFilterQuery(TripFilters{
		Destination: "  Bariloche ",
		Season:      "verano",
		BudgetMin:   100,
		BudgetMax:   500,
		RoomType:    "shared",
		Country:     "Argentina",
		Tags:        []string{"aventura", "montaña"},
	})
	if len(args) != 7 {
		t.Fatalf("получено %d аргументов, ожидалось 7", len(args))
	}
	if args[0] != "%Bariloche%" {
		t.Errorf("аргумент направления = %v, ожидалась подстрока без пробелов", args[0])
	}
	for i := 1; i <= 7; i++ {
		placeholder := "$" + string(rune('0'+i))
		if !strings.Contains(query, placeholder) {
			t.Errorf("в запросе нет плейсхолдера %s", placeholder)
		}
	}
	for _, clause := range []string{
		"t.destination ILIKE",
		"t.season =",
		"t.budget_min >=",
		"t.budget_max <=",
		"t.room_type =",
		"t.country =",
		"t.tags &&",
	} {
		if !strings.Contains(query, clause) {
			t.Errorf("в запросе нет условия %q", clause)
		}
	}
}

func TestBuildTripFilterQueryZeroBudgetIgnored(t *testing.T) {
	_, args := buildTripFilterQuery(TripFilters{BudgetMin: 0, BudgetMax: 0})
	if len(args) != 0 {
		t.Errorf("нулевые границы бюджета не должны добавлять условий, аргументов: %d", len(args))
	}
}
