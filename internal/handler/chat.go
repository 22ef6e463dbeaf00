package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
)

// ListRooms обработчик для GET /api/chat/rooms - возвращает все комнаты, новые первыми.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.ChatService.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить комнаты"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateRoom обработчик для POST /api/chat/rooms - создает комнату и входит в нее.
func (h *Handler) CreateRoom(c *gin.Context) {
	var params service.CreateRoomParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите название комнаты"})
		return
	}
	state, err := h.ChatService.CreateRoom(currentUserID(c), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать комнату"})
		return
	}
	c.JSON(http.StatusCreated, state)
}

// JoinRoom обработчик для POST /api/chat/rooms/:id/join - входит в комнату.
func (h *Handler) JoinRoom(c *gin.Context) {
	roomID, err := parseID(c)
	if err != nil {
		return
	}
	state, err := h.ChatService.JoinRoom(currentUserID(c), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось войти в комнату"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// LeaveRoom обработчик для POST /api/chat/rooms/:id/leave - выходит из комнаты.
func (h *Handler) LeaveRoom(c *gin.Context) {
	roomID, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.ChatService.LeaveRoom(currentUserID(c), roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выйти из комнаты"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

// SendMessage обработчик для POST /api/chat/messages - отправляет сообщение в текущую комнату.
func (h *Handler) SendMessage(c *gin.Context) {
	var params struct {
		Content     string `json:"content" binding:"required"`
		MessageType string `json:"message_type"`
	}
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите текст сообщения"})
		return
	}
	if err := h.ChatService.SendMessage(currentUserID(c), params.Content, params.MessageType); err != nil {
		if errors.Is(err, service.ErrNoActiveRoom) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось отправить сообщение"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"sent": true})
}

// RoomMessages обработчик для GET /api/chat/rooms/:id/messages - история сообщений комнаты.
func (h *Handler) RoomMessages(c *gin.Context) {
	roomID, err := parseID(c)
	if err != nil {
		return
	}
	messages, err := h.ChatService.Messages(currentUserID(c), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить сообщения"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// RoomMembers обработчик для GET /api/chat/rooms/:id/members - участники комнаты.
func (h *Handler) RoomMembers(c *gin.Context) {
	roomID, err := parseID(c)
	if err != nil {
		return
	}
	members, err := h.ChatService.Members(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить участников"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// PollMessages обработчик для GET /api/chat/poll - возвращает только сообщения
// новее отметки последнего увиденного и продвигает отметку.
func (h *Handler) PollMessages(c *gin.Context) {
	messages, err := h.ChatService.Poll(currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRoom) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось проверить новые сообщения"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// StreamMessages обработчик для GET /api/chat/stream - отдает новые сообщения
// текущей комнаты как server-sent events поверх цикла опроса.
func (h *Handler) StreamMessages(c *gin.Context) {
	ch, cancel, err := h.ChatService.Subscribe(currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRoom) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось открыть поток сообщений"})
		return
	}
	defer cancel()
	c.Stream(func(w io.Writer) bool {
		select {
		case messages, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("messages", messages)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// parseID разбирает параметр пути :id; при ошибке сам пишет ответ 400.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор"})
		return 0, err
	}
	return id, nil
}
