package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
)

func testHandler() (*Handler, *service.JWTManager) {
	jwt := service.NewJWTManager(service.JWTConfig{
		SecretKey:            "test-secret",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		Issuer:               "jetgo-test",
	})
	as := service.NewAuthService(nil, nil, jwt, "http://localhost:3000")
	return NewHandler(as, nil, nil, nil, nil), jwt
}

func authRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", h.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c)})
	})
	return r
}

func TestAuthRequiredNoHeader(t *testing.T) {
	h, _ := testHandler()
	r := authRouter(h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("код = %d, ожидался 401", w.Code)
	}
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	h, _ := testHandler()
	r := authRouter(h)
	for _, header := range []string{"Token abc", "Bearer", "abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("заголовок %q: код = %d, ожидался 401", header, w.Code)
		}
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	h, _ := testHandler()
	r := authRouter(h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("код = %d, ожидался 401", w.Code)
	}
}

func TestAuthRequiredValidToken(t *testing.T) {
	h, jwt := testHandler()
	token, err := jwt.GenerateAccessToken(42, "user@example.com")
	if err != nil {
		t.Fatalf("не удалось выпустить токен: %v", err)
	}
	r := authRouter(h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200, тело: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"user_id":42}` {
		t.Errorf("тело = %s", body)
	}
}
