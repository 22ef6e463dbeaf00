package handler

import (
	"errors"
	"net/http"

	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
)

// Register обработчик для POST /api/auth/register - регистрирует пользователя.
func (h *Handler) Register(c *gin.Context) {
	var params service.RegisterParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные регистрации"})
		return
	}
	user, err := h.AuthService.Register(params)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось зарегистрировать пользователя"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"message": "Письмо с подтверждением отправлено",
	})
}

// Login обработчик для POST /api/auth/login - выпускает токены по email/паролю.
func (h *Handler) Login(c *gin.Context) {
	var params struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите email и пароль"})
		return
	}
	tokens, err := h.AuthService.Login(params.Email, params.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выполнить вход"})
		}
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh обработчик для POST /api/auth/refresh - обновляет пару токенов.
func (h *Handler) Refresh(c *gin.Context) {
	var params struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите токен обновления"})
		return
	}
	tokens, err := h.AuthService.Refresh(params.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен обновления"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// VerifyEmail обработчик для GET /api/auth/verify-email - обменивает токен подтверждения.
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан токен подтверждения"})
		return
	}
	if err := h.AuthService.VerifyEmail(token); err != nil {
		if errors.Is(err, service.ErrInvalidVerificationToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось подтвердить email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true, "message": "Email подтвержден"})
}

// ResendVerification обработчик для POST /api/auth/resend - повторно создает токен подтверждения.
func (h *Handler) ResendVerification(c *gin.Context) {
	if err := h.AuthService.ResendVerification(currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Письмо с подтверждением отправлено"})
}
