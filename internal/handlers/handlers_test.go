package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/warzonemc/mars-api/internal/config"
	"github.com/warzonemc/mars-api/internal/leaderboard"
	"github.com/warzonemc/mars-api/internal/models"
)

// deadRedis points at nothing; commands error out instead of panicking.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func testHandler() *Handler {
	rdb := deadRedis()
	return &Handler{
		redis:        rdb,
		leaderboards: leaderboard.New(rdb, nil),
		logger:       zap.NewNop().Sugar(),
		validate:     validator.New(),
		token:        "secret",
		data: &config.Data{
			Broadcasts: []models.Broadcast{{Name: "welcome", Message: "hi"}},
			LevelColors: []models.LevelColor{{Level: 10, Color: "aqua"}},
			JoinSounds:  []models.JoinSound{{ID: "horn", Name: "Horn"}},
		},
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Bearer secret", http.StatusUnauthorized},
		{"wrong token", "API-Token nope", http.StatusUnauthorized},
		{"valid", "API-Token secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawServerID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sawServerID = callingServerID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", "/mc/reports", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			req.Header.Set("Mars-Server-ID", "srv1")
			rec := httptest.NewRecorder()

			h.AuthMiddleware(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK && sawServerID != "srv1" {
				t.Errorf("server id in context = %q, want srv1", sawServerID)
			}
		})
	}
}

func TestAuthMiddlewareErrorBody(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest("POST", "/mc/reports", nil)
	rec := httptest.NewRecorder()

	h.AuthMiddleware(http.NotFoundHandler()).ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{`"code":"UNAUTHORIZED_EXCEPTION"`, `"error":true`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestHashIP(t *testing.T) {
	h := testHandler()
	if got := h.hashIP("1.2.3.4"); got != "1.2.3.4" {
		t.Errorf("hashing disabled should pass through, got %q", got)
	}

	h.enableIPHashing = true
	hashed := h.hashIP("1.2.3.4")
	if hashed == "1.2.3.4" || len(hashed) != 64 {
		t.Errorf("hashIP = %q, want 64-char sha256 hex", hashed)
	}
	if hashed != h.hashIP("1.2.3.4") {
		t.Error("hashIP must be deterministic")
	}
}

func TestGetLeaderboardValidation(t *testing.T) {
	h := testHandler()
	router := h.Routes()

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"unknown metric", "/mc/leaderboards/BOGUS/ALL_TIME", http.StatusBadRequest},
		{"private metric", "/mc/leaderboards/SERVER_PLAYTIME/ALL_TIME", http.StatusUnauthorized},
		{"unknown period", "/mc/leaderboards/KILLS/FORTNIGHTLY", http.StatusBadRequest},
		{"valid empty", "/mc/leaderboards/KILLS/ALL_TIME?limit=100", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}

func TestDataEndpoints(t *testing.T) {
	h := testHandler()
	router := h.Routes()

	tests := []struct {
		path string
		want string
	}{
		{"/mc/broadcasts", `"welcome"`},
		{"/mc/levels/colors", `"aqua"`},
		{"/mc/perks/join_sounds", `"horn"`},
		{"/status", `"OK"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body %q missing %q", rec.Body.String(), tt.want)
			}
		})
	}
}
