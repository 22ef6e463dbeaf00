package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/model"
)

// ErrNoActiveRoom возвращается для операций, требующих активной комнаты.
var ErrNoActiveRoom = errors.New("нет активной комнаты: сначала войдите в комнату")

// roomStore описывает подмножество репозитория комнат, нужное сервису чата.
type roomStore interface {
	ListAll() ([]model.Room, error)
	GetByID(id int64) (*model.Room, error)
	Create(room *model.Room) (int64, error)
	AddMember(roomID, userID int64, role string) error
	RemoveMember(roomID, userID int64) error
	ListMembers(roomID int64) ([]model.RoomMember, error)
}

// messageStore описывает подмножество репозитория сообщений, нужное сервису чата.
type messageStore interface {
	Create(msg *model.ChatMessage) (int64, error)
	ListRecent(roomID int64, limit int) ([]model.ChatMessage, error)
	ListAfter(roomID, afterID int64) ([]model.ChatMessage, error)
}

const (
	// DefaultPollInterval задает период цикла опроса новых сообщений.
	DefaultPollInterval = 2 * time.Second
	// messageHistoryLimit ограничивает число сообщений истории, загружаемых при входе в комнату.
	messageHistoryLimit = 100
)

// session хранит состояние чата одного пользователя: текущую комнату,
// отметку последнего увиденного сообщения и активный цикл опроса.
type session struct {
	roomID        int64
	lastMessageID int64
	poller        *Poller
}

// RoomState представляет снимок комнаты, возвращаемый после входа: сама комната,
// история сообщений и список участников.
type RoomState struct {
	Room     *model.Room         `json:"room"`
	Messages []model.ChatMessage `json:"messages"`
	Members  []model.RoomMember  `json:"members"`
}

// CreateRoomParams содержит данные формы создания комнаты.
type CreateRoomParams struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	MaxMembers  int    `json:"max_members"`
}

// ChatService управляет комнатами, членством и сообщениями. Локальное
// состояние каждого пользователя (текущая комната и отметка опроса) хранится
// в памяти под мьютексом и перестраивается при каждом входе в комнату.
type ChatService struct {
	roomRepo     roomStore
	messageRepo  messageStore
	pollInterval time.Duration
	mu           sync.Mutex
	sessions     map[int64]*session // userID -> активная сессия чата
}

// NewChatService создает новый сервис чата.
func NewChatService(roomRepo roomStore, messageRepo messageStore) *ChatService {
	return &ChatService{
		roomRepo:     roomRepo,
		messageRepo:  messageRepo,
		pollInterval: DefaultPollInterval,
		sessions:     make(map[int64]*session),
	}
}

// ListRooms возвращает все комнаты, новые первыми.
func (s *ChatService) ListRooms() ([]model.Room, error) {
	return s.roomRepo.ListAll()
}

// JoinRoom добавляет пользователя в комнату и возвращает ее снимок.
// Повторный вход в ту же комнату безопасен: членство не дублируется,
// а отметка опроса выставляется заново по загруженной истории.
func (s *ChatService) JoinRoom(userID, roomID int64) (*RoomState, error) {
	if err := s.roomRepo.AddMember(roomID, userID, "member"); err != nil {
		return nil, err
	}
	room, err := s.roomRepo.GetByID(roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("комната не найдена")
		}
		return nil, fmt.Errorf("ошибка при получении комнаты: %w", err)
	}
	messages, err := s.messageRepo.ListRecent(roomID, messageHistoryLimit)
	if err != nil {
		return nil, err
	}
	members, err := s.roomRepo.ListMembers(roomID)
	if err != nil {
		return nil, err
	}
	var lastID int64
	if len(messages) > 0 {
		lastID = messages[len(messages)-1].ID
	}
	s.mu.Lock()
	if old, ok := s.sessions[userID]; ok && old.poller != nil {
		old.poller.Stop()
	}
	s.sessions[userID] = &session{roomID: roomID, lastMessageID: lastID}
	s.mu.Unlock()
	return &RoomState{Room: room, Messages: messages, Members: members}, nil
}

// LeaveRoom останавливает опрос, удаляет членство и сбрасывает состояние
// пользователя. Число затронутых строк не проверяется.
func (s *ChatService) LeaveRoom(userID, roomID int64) error {
	s.mu.Lock()
	if sess, ok := s.sessions[userID]; ok {
		if sess.poller != nil {
			sess.poller.Stop()
		}
		delete(s.sessions, userID)
	}
	s.mu.Unlock()
	return s.roomRepo.RemoveMember(roomID, userID)
}

// SendMessage сохраняет сообщение в текущей комнате пользователя.
// Без активной комнаты операция не выполняет ни одного запроса.
// Отправленное сообщение не добавляется в локальное состояние:
// оно станет видно на следующем такте опроса.
func (s *ChatService) SendMessage(userID int64, content, messageType string) error {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return ErrNoActiveRoom
	}
	if messageType == "" {
		messageType = "text"
	}
	msg := &model.ChatMessage{
		RoomID:      sess.roomID,
		SenderID:    userID,
		Content:     content,
		MessageType: messageType,
	}
	_, err := s.messageRepo.Create(msg)
	return err
}

// CreateRoom создает комнату от имени пользователя и сразу входит в нее.
func (s *ChatService) CreateRoom(userID int64, p CreateRoomParams) (*RoomState, error) {
	maxMembers := p.MaxMembers
	if maxMembers <= 0 {
		maxMembers = 50
	}
	room := &model.Room{
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   userID,
		IsPrivate:   p.IsPrivate,
		MaxMembers:  maxMembers,
	}
	id, err := s.roomRepo.Create(room)
	if err != nil {
		return nil, err
	}
	return s.JoinRoom(userID, id)
}

// Messages возвращает историю сообщений комнаты (до 100, старые первыми).
// Если это текущая комната пользователя, отметка опроса продвигается
// до последнего загруженного сообщения.
func (s *ChatService) Messages(userID, roomID int64) ([]model.ChatMessage, error) {
	messages, err := s.messageRepo.ListRecent(roomID, messageHistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 {
		s.mu.Lock()
		if sess, ok := s.sessions[userID]; ok && sess.roomID == roomID {
			sess.lastMessageID = messages[len(messages)-1].ID
		}
		s.mu.Unlock()
	}
	return messages, nil
}

// Members возвращает участников комнаты с данными профиля.
func (s *ChatService) Members(roomID int64) ([]model.RoomMember, error) {
	return s.roomRepo.ListMembers(roomID)
}

// Poll возвращает сообщения текущей комнаты с идентификатором строго больше
// отметки и продвигает отметку. Сообщение никогда не выдается дважды, даже
// двумя одновременными опросами одного пользователя.
func (s *ChatService) Poll(userID int64) ([]model.ChatMessage, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	var roomID, mark int64
	if ok {
		roomID, mark = sess.roomID, sess.lastMessageID
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoActiveRoom
	}
	messages, err := s.messageRepo.ListAfter(roomID, mark)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if cur, ok := s.sessions[userID]; ok && cur == sess {
		messages = applyPoll(cur, mark, messages)
	}
	s.mu.Unlock()
	return messages, nil
}

// applyPoll продвигает отметку сессии по результату выборки. Если отметка
// успела уйти вперед (конкурирующий опрос выбрал те же строки первым),
// уже выданные сообщения отбрасываются, а отметка никогда не откатывается.
func applyPoll(sess *session, fetchedAfter int64, messages []model.ChatMessage) []model.ChatMessage {
	if sess.lastMessageID != fetchedAfter {
		trimmed := make([]model.ChatMessage, 0, len(messages))
		for _, m := range messages {
			if m.ID > sess.lastMessageID {
				trimmed = append(trimmed, m)
			}
		}
		messages = trimmed
	}
	if n := len(messages); n > 0 && messages[n-1].ID > sess.lastMessageID {
		sess.lastMessageID = messages[n-1].ID
	}
	return messages
}

// Subscribe запускает цикл опроса текущей комнаты пользователя и возвращает
// канал с порциями новых сообщений. Возвращенная функция останавливает цикл;
// он также останавливается при выходе из комнаты.
func (s *ChatService) Subscribe(userID int64) (<-chan []model.ChatMessage, func(), error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, nil, ErrNoActiveRoom
	}
	if sess.poller != nil {
		sess.poller.Stop()
	}
	roomID := sess.roomID
	ch := make(chan []model.ChatMessage, 16)
	poller := NewPoller(s.pollInterval, sess.lastMessageID,
		func(afterID int64) ([]model.ChatMessage, error) {
			return s.messageRepo.ListAfter(roomID, afterID)
		},
		func(messages []model.ChatMessage) {
			// Медленный потребитель теряет порцию: гарантий доставки нет
			select {
			case ch <- messages:
			default:
			}
		})
	sess.poller = poller
	s.mu.Unlock()
	go poller.Run()
	cancel := func() {
		poller.Stop()
		s.mu.Lock()
		if cur, ok := s.sessions[userID]; ok && cur.poller == poller {
			cur.poller = nil
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

// Close останавливает все активные циклы опроса.
func (s *ChatService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.poller != nil {
			sess.poller.Stop()
			sess.poller = nil
		}
	}
}
