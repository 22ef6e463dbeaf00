package handler

import (
	"errors"
	"net/http"

	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProfile обработчик для GET /api/profile - профиль текущего пользователя.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.ProfileService.Get(currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить профиль"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile обработчик для PUT /api/profile - обновляет профиль.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var params service.UpdateProfileParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные профиля"})
		return
	}
	profile, err := h.ProfileService.Update(currentUserID(c), params)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить профиль"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadProfileImage обработчик для POST /api/profile/image - загружает фото профиля.
func (h *Handler) UploadProfileImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан файл image"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не удалось прочитать файл"})
		return
	}
	defer file.Close()
	url, err := h.ProfileService.UploadImage(currentUserID(c), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить фото"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_image_url": url})
}
