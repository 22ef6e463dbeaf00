package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/model"
)

func messages(ids ...int64) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.ChatMessage{ID: id, RoomID: 1, Content: "hola"})
	}
	return out
}

func TestPollerTickAdvancesMark(t *testing.T) {
	store := map[int64][]model.ChatMessage{
		0: messages(1, 2, 3),
		3: messages(4),
		4: nil,
	}
	var fetched []int64
	var delivered [][]model.ChatMessage
	p := NewPoller(time.Second, 0,
		func(afterID int64) ([]model.ChatMessage, error) {
			fetched = append(fetched, afterID)
			return store[afterID], nil
		},
		func(ms []model.ChatMessage) {
			delivered = append(delivered, ms)
		})

	p.tick()
	p.tick()
	p.tick()

	wantFetched := []int64{0, 3, 4}
	for i, want := range wantFetched {
		if fetched[i] != want {
			t.Errorf("такт %d запросил сообщения после %d, ожидалось %d", i, fetched[i], want)
		}
	}
	if len(delivered) != 2 {
		t.Fatalf("доставлено %d порций, ожидалось 2", len(delivered))
	}
	// Ни одно сообщение не доставляется дважды
	seen := map[int64]bool{}
	for _, batch := range delivered {
		for _, m := range batch {
			if seen[m.ID] {
				t.Errorf("сообщение %d доставлено повторно", m.ID)
			}
			seen[m.ID] = true
		}
	}
}

func TestPollerTickKeepsMarkOnError(t *testing.T) {
	calls := 0
	var delivered int
	p := NewPoller(time.Second, 7,
		func(afterID int64) ([]model.ChatMessage, error) {
			calls++
			if afterID != 7 {
				t.Errorf("запрошены сообщения после %d, ожидалось 7", afterID)
			}
			return nil, fmt.Errorf("база недоступна")
		},
		func(ms []model.ChatMessage) { delivered++ })

	p.tick()
	p.tick()

	if calls != 2 {
		t.Errorf("выполнено %d запросов, ожидалось 2", calls)
	}
	if delivered != 0 {
		t.Errorf("при ошибке выборки ничего не должно доставляться")
	}
}

func TestPollerStopEndsDelivery(t *testing.T) {
	delivered := make(chan []model.ChatMessage, 100)
	next := int64(1)
	p := NewPoller(5*time.Millisecond, 0,
		func(afterID int64) ([]model.ChatMessage, error) {
			ms := messages(next)
			next++
			return ms, nil
		},
		func(ms []model.ChatMessage) { delivered <- ms })

	go p.Run()
	// Дожидаемся хотя бы одной доставки
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("цикл опроса не доставил ни одного сообщения")
	}
	p.Stop()

	// После остановки новых доставок нет
	for len(delivered) > 0 {
		<-delivered
	}
	time.Sleep(30 * time.Millisecond)
	if len(delivered) != 0 {
		t.Error("после остановки цикла получены новые сообщения")
	}

	// Повторная остановка безопасна
	p.Stop()
}
