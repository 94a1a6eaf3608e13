package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotbook/config"
	"slotbook/database/repository/memrepo"
	"slotbook/models"
	"slotbook/services/session"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
	m.Run()
}

func authRouter(t *testing.T) (*gin.Engine, *session.MemoryStore) {
	t.Helper()
	users := memrepo.NewUsers()
	require.NoError(t, users.Create(context.Background(), &models.User{ID: "u1", Username: "bob", Email: "b@x.io"}))
	sessions := session.NewMemoryStore()

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/me", JWTAuthMiddleware(users, sessions), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r, sessions
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r, sessions := authRouter(t)

	token, err := utils.GenerateToken("u1", "bob", time.Hour)
	require.NoError(t, err)

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)

	w = get(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	// The first request cached the token.
	cached, err := sessions.Lookup(context.Background(), utils.HashToken(token), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "u1", cached)
	assert.Equal(t, http.StatusOK, get(r, token).Code)

	require.NoError(t, sessions.Revoke(context.Background(), utils.HashToken(token), time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, get(r, token).Code)
}

func TestJWTAuth_RejectsExpiredAndUnknownSubject(t *testing.T) {
	r, _ := authRouter(t)

	expired, err := utils.GenerateToken("u1", "bob", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, expired).Code)

	ghost, err := utils.GenerateToken("ghost", "ghost", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, ghost).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.8")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "10.0.0.2:1234", "198.51.100.1"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.2:1234", "198.51.100.2"},
		{"spoofed header ignored", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.2:1234", "10.0.0.2"},
		{"remote addr", nil, "192.0.2.5:80", "192.0.2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}
