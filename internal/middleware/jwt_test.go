package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/service"
)

const testSecret = "unit-test-secret"

func newTestAuthService() *service.AuthService {
	cfg := &config.Config{JWTSecret: testSecret, JWTExpiry: time.Hour}
	return service.NewAuthService(nil, nil, nil, nil, cfg, zerolog.Nop())
}

func signToken(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	claims := &service.Claims{
		UserID: 1,
		Role:   role,
		Name:   "Test User",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "test-jti",
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRequireStudentJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := newTestAuthService()
	r := gin.New()
	r.GET("/protected", RequireStudentJWT(auth), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "valid student token",
			token:      signToken(t, service.RoleStudent, time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			token:      "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_REQUIRED",
		},
		{
			name:       "expired token",
			token:      signToken(t, service.RoleStudent, time.Now().Add(-time.Minute)),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_EXPIRED",
		},
		{
			name:       "garbage token",
			token:      "not-a-jwt",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_INVALID",
		},
		{
			name:       "wrong role",
			token:      signToken(t, service.RoleTeacher, time.Now().Add(time.Hour)),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode == "" {
				return
			}

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestExtractTokenFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws?token=abc123", nil)

	if got := extractToken(c); got != "abc123" {
		t.Errorf("extractToken = %q, want %q", got, "abc123")
	}
}
