package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tokens *auth.TokenManager, roles ...models.Role) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{middleware.RequireAuth(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := middleware.Identity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	r.GET("/", handlers...)
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	valid, err := tokens.Issue(&models.User{ID: 3, Role: models.RoleJobSeeker})
	if err != nil {
		t.Fatal(err)
	}
	expired, err := auth.NewTokenManager("secret", -time.Minute).Issue(&models.User{ID: 3, Role: models.RoleJobSeeker})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer  ", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	r := protectedRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := protectedRouter(tokens, models.RoleRecruiter, models.RoleAdmin)

	for role, want := range map[models.Role]int{
		models.RoleJobSeeker: http.StatusForbidden,
		models.RoleRecruiter: http.StatusOK,
		models.RoleAdmin:     http.StatusOK,
	} {
		token, err := tokens.Issue(&models.User{ID: 1, Role: role})
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != want {
			t.Errorf("%s: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Redis:    client,
		Limit:    2,
		Interval: time.Hour,
		Prefix:   "login",
	})

	r := gin.New()
	r.POST("/login", limiter.GinMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	hit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := range 2 {
		if w := hit(); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
	w := hit()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestRateLimiterDisabledWithoutRedis(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Limit: 1, Interval: time.Minute})

	r := gin.New()
	r.POST("/login", limiter.GinMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := range 5 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Redis: client, Limit: 1, Interval: time.Minute})
	r := gin.New()
	r.POST("/login", limiter.GinMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want request to pass when redis is down", w.Code)
	}
}
