package handler

import (
	"net/http"

	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
)

// VerifyIdentity обработчик для POST /api/verification - проверка личности.
func (h *Handler) VerifyIdentity(c *gin.Context) {
	var params service.VerifyParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные проверки"})
		return
	}
	result, err := h.VerificationService.Verify(currentUserID(c), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Внутренняя ошибка сервера"})
		return
	}
	c.JSON(http.StatusOK, result)
}
