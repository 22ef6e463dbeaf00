package handler

import (
	"net/http"
	"strings"

	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	AuthService         *service.AuthService
	ChatService         *service.ChatService
	TripService         *service.TripService
	ProfileService      *service.ProfileService
	VerificationService *service.VerificationService
}

// NewHandler создает новый Handler с внедрением зависимостей (сервисов).
func NewHandler(as *service.AuthService, cs *service.ChatService, ts *service.TripService,
	ps *service.ProfileService, vs *service.VerificationService) *Handler {
	return &Handler{
		AuthService:         as,
		ChatService:         cs,
		TripService:         ts,
		ProfileService:      ps,
		VerificationService: vs,
	}
}

const userIDKey = "userID"

// AuthRequired проверяет заголовок Authorization (Bearer-токен доступа)
// и кладет идентификатор пользователя в контекст запроса.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}
		claims, err := h.AuthService.ValidateAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// currentUserID возвращает идентификатор аутентифицированного пользователя.
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
