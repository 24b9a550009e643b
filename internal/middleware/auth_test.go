package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tempizhere/golists/internal/config"
	"github.com/tempizhere/golists/internal/repository"
	"github.com/tempizhere/golists/internal/service"
	"go.uber.org/zap"
)

func newAuthTestService() (*service.Service, *config.Config) {
	repo := repository.NewMemoryRepository()
	svc := service.NewService(repo, "http://localhost:8080", "secret")
	cfg := &config.Config{JWTSecret: "secret", CookieTTL: 24 * time.Hour}
	return svc, cfg
}

func TestAuthMiddleware(t *testing.T) {
	svc, cfg := newAuthTestService()
	logger := zap.NewNop()

	var seenUserID string
	handler := AuthMiddleware(svc, cfg, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	// Тест 1: Запрос без куки получает новую куку и userID в контексте
	req := httptest.NewRequest(http.MethodGet, "/lists", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Request should pass through")
	assert.NotEmpty(t, seenUserID, "UserID should be set in context")

	cookies := rr.Result().Cookies()
	var jwtCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == "jwt_token" {
			jwtCookie = c
		}
	}
	assert.NotNil(t, jwtCookie, "jwt_token cookie should be set")
	assert.True(t, jwtCookie.HttpOnly, "Cookie should be HttpOnly")

	// Тест 2: Повторный запрос с кукой сохраняет того же пользователя
	firstUserID := seenUserID
	req = httptest.NewRequest(http.MethodGet, "/lists", nil)
	req.AddCookie(jwtCookie)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, firstUserID, seenUserID, "UserID should be stable across requests")
	assert.Empty(t, rr.Result().Cookies(), "Valid cookie should not be reissued")

	// Тест 3: Невалидная кука заменяется новой идентичностью
	req = httptest.NewRequest(http.MethodGet, "/lists", nil)
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: "garbage"})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Request should pass through")
	assert.NotEqual(t, firstUserID, seenUserID, "Invalid token should produce a new userID")
	assert.NotEmpty(t, rr.Result().Cookies(), "New cookie should be issued")
}

func TestGetUserIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/lists", nil)
	userID, ok := GetUserID(req)
	assert.False(t, ok, "UserID should be absent without middleware")
	assert.Empty(t, userID, "UserID should be empty")
}
