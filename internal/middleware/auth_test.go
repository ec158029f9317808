package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rescuegrid/dispatch-admin/internal/auth"
	"github.com/rescuegrid/dispatch-admin/internal/config"
)

func protected(m *auth.JWTManager) http.Handler {
	return JWTAuth(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.Email))
	}))
}

func TestJWTAuth(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret-key-for-testing-min-32-chars", AccessTokenExpiry: time.Hour}
	m := auth.NewJWTManager(cfg)
	valid, _ := m.GenerateAccessToken(uuid.New(), "ops@example.com", "admin")

	expiredCfg := *cfg
	expiredCfg.AccessTokenExpiry = -time.Hour
	expired, _ := auth.NewJWTManager(&expiredCfg).GenerateAccessToken(uuid.New(), "ops@example.com", "admin")

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Invalid authorization header format"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "Token has expired"},
		{"valid token", "bearer " + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			protected(m).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if rr.Body.String() != "ops@example.com" {
					t.Errorf("expected claims in context, got %q", rr.Body.String())
				}
				return
			}

			var body struct {
				Meta struct {
					Success bool   `json:"success"`
					Message string `json:"message"`
				} `json:"meta"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if body.Meta.Success || body.Meta.Message != tt.wantMessage {
				t.Errorf("unexpected meta: %+v", body.Meta)
			}
		})
	}
}
