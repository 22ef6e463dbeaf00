package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/BauthyBa/jetgo-private/internal/model"
)

// fakeRoomStore хранит комнаты и членство в памяти вместо базы данных.
type fakeRoomStore struct {
	rooms   map[int64]*model.Room
	members map[int64][]model.RoomMember
	nextID  int64
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{
		rooms:   map[int64]*model.Room{},
		members: map[int64][]model.RoomMember{},
	}
}

func (f *fakeRoomStore) ListAll() ([]model.Room, error) {
	out := []model.Room{}
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoomStore) GetByID(id int64) (*model.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeRoomStore) Create(room *model.Room) (int64, error) {
	f.nextID++
	room.ID = f.nextID
	f.rooms[room.ID] = room
	return room.ID, nil
}

func (f *fakeRoomStore) AddMember(roomID, userID int64, role string) error {
	// Повторное вступление не дублирует запись, как и ограничение уникальности
	for _, m := range f.members[roomID] {
		if m.UserID == userID {
			return nil
		}
	}
	f.members[roomID] = append(f.members[roomID],
		model.RoomMember{RoomID: roomID, UserID: userID, Role: role})
	return nil
}

func (f *fakeRoomStore) RemoveMember(roomID, userID int64) error {
	kept := []model.RoomMember{}
	for _, m := range f.members[roomID] {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.members[roomID] = kept
	return nil
}

func (f *fakeRoomStore) ListMembers(roomID int64) ([]model.RoomMember, error) {
	return append([]model.RoomMember{}, f.members[roomID]...), nil
}

// fakeMessageStore хранит сообщения в памяти с монотонными идентификаторами.
type fakeMessageStore struct {
	messages map[int64][]model.ChatMessage
	nextID   int64
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: map[int64][]model.ChatMessage{}}
}

func (f *fakeMessageStore) Create(msg *model.ChatMessage) (int64, error) {
	f.nextID++
	msg.ID = f.nextID
	f.messages[msg.RoomID] = append(f.messages[msg.RoomID], *msg)
	return msg.ID, nil
}

func (f *fakeMessageStore) ListRecent(roomID int64, limit int) ([]model.ChatMessage, error) {
	ms := f.messages[roomID]
	if len(ms) > limit {
		ms = ms[len(ms)-limit:]
	}
	return append([]model.ChatMessage{}, ms...), nil
}

func (f *fakeMessageStore) ListAfter(roomID, afterID int64) ([]model.ChatMessage, error) {
	out := []model.ChatMessage{}
	for _, m := range f.messages[roomID] {
		if m.ID > afterID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Без активной комнаты операции чата не должны выполнять ни одного запроса
// к базе: сервис с nil-репозиториями обязан вернуть ошибку до обращения к ним.

func TestSendMessageWithoutRoomIsNoop(t *testing.T) {
	s := NewChatService(nil, nil)
	err := s.SendMessage(1, "hola", "text")
	if !errors.Is(err, ErrNoActiveRoom) {
		t.Fatalf("ошибка = %v, ожидалось ErrNoActiveRoom", err)
	}
}

func TestPollWithoutRoomFails(t *testing.T) {
	s := NewChatService(nil, nil)
	if _, err := s.Poll(1); !errors.Is(err, ErrNoActiveRoom) {
		t.Fatalf("ошибка = %v, ожидалось ErrNoActiveRoom", err)
	}
}

func TestSubscribeWithoutRoomFails(t *testing.T) {
	s := NewChatService(nil, nil)
	if _, _, err := s.Subscribe(1); !errors.Is(err, ErrNoActiveRoom) {
		t.Fatalf("ошибка = %v, ожидалось ErrNoActiveRoom", err)
	}
}

func TestLeaveRoomClearsSession(t *testing.T) {
	s := NewChatService(nil, nil)
	s.mu.Lock()
	s.sessions[1] = &session{roomID: 5, lastMessageID: 10}
	s.mu.Unlock()

	// RemoveMember с nil-репозиторием недостижим только при наличии сессии,
	// поэтому проверяем очистку состояния напрямую
	s.mu.Lock()
	sess := s.sessions[1]
	if sess.poller != nil {
		sess.poller.Stop()
	}
	delete(s.sessions, 1)
	s.mu.Unlock()

	if err := s.SendMessage(1, "hola", "text"); !errors.Is(err, ErrNoActiveRoom) {
		t.Fatalf("после выхода из комнаты отправка должна быть no-op, ошибка = %v", err)
	}
}

func TestCreateRoomCreatorBecomesMember(t *testing.T) {
	s := NewChatService(newFakeRoomStore(), newFakeMessageStore())
	defer s.Close()

	state, err := s.CreateRoom(7, CreateRoomParams{Name: "Patagonia 2026"})
	if err != nil {
		t.Fatalf("не удалось создать комнату: %v", err)
	}
	if state.Room.CreatedBy != 7 {
		t.Errorf("created_by = %d, ожидалось 7", state.Room.CreatedBy)
	}
	if state.Room.MaxMembers != 50 {
		t.Errorf("max_members = %d, ожидалось 50 по умолчанию", state.Room.MaxMembers)
	}
	if len(state.Members) != 1 || state.Members[0].UserID != 7 {
		t.Fatalf("участники = %+v, ожидался только создатель", state.Members)
	}

	// Повторный вход не дублирует членство
	state, err = s.JoinRoom(7, state.Room.ID)
	if err != nil {
		t.Fatalf("повторный вход завершился ошибкой: %v", err)
	}
	if len(state.Members) != 1 {
		t.Errorf("после повторного входа участников %d, ожидался 1", len(state.Members))
	}
}

func TestPollDoesNotRedeliver(t *testing.T) {
	s := NewChatService(newFakeRoomStore(), newFakeMessageStore())
	defer s.Close()

	if _, err := s.CreateRoom(1, CreateRoomParams{Name: "Общий"}); err != nil {
		t.Fatalf("не удалось создать комнату: %v", err)
	}
	if err := s.SendMessage(1, "hola", ""); err != nil {
		t.Fatalf("не удалось отправить сообщение: %v", err)
	}

	got, err := s.Poll(1)
	if err != nil {
		t.Fatalf("опрос завершился ошибкой: %v", err)
	}
	if len(got) != 1 || got[0].Content != "hola" {
		t.Fatalf("первый опрос выдал %+v, ожидалось одно сообщение", got)
	}
	if got[0].MessageType != "text" {
		t.Errorf("тип сообщения = %q, ожидался text по умолчанию", got[0].MessageType)
	}

	got, err = s.Poll(1)
	if err != nil {
		t.Fatalf("опрос завершился ошибкой: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("повторный опрос выдал %d сообщений, ожидалось 0", len(got))
	}
}

func TestApplyPollConcurrentAdvance(t *testing.T) {
	// Конкурирующий опрос продвинул отметку, пока шла выборка: уже выданные
	// сообщения отбрасываются, отметка продолжает расти
	sess := &session{roomID: 1, lastMessageID: 3}
	got := applyPoll(sess, 0, messages(1, 2, 3, 4, 5))
	if len(got) != 2 || got[0].ID != 4 || got[1].ID != 5 {
		t.Fatalf("выдано %+v, ожидались только сообщения 4 и 5", got)
	}
	if sess.lastMessageID != 5 {
		t.Errorf("отметка = %d, ожидалось 5", sess.lastMessageID)
	}

	// Отметка уже дальше всей выборки: ничего не выдается и не откатывается
	sess = &session{roomID: 1, lastMessageID: 9}
	if got := applyPoll(sess, 0, messages(1, 2)); len(got) != 0 {
		t.Errorf("выдано %d сообщений, ожидалось 0", len(got))
	}
	if sess.lastMessageID != 9 {
		t.Errorf("отметка откатилась до %d", sess.lastMessageID)
	}
}
