package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymconnect/internal/auth"
	"gymconnect/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Port:             "0",
		Environment:      "test",
		JWTSecret:        testSecret,
		JWTRefreshSecret: testSecret,
		RateLimitRPS:     1000,
		RateLimitBurst:   1000,
		SweepInterval:    time.Hour,
	}
	return New(sqlx.NewDb(db, "sqlmock"), cfg, zap.NewNop()), mock
}

func tokenFor(t *testing.T, role auth.Role) string {
	t.Helper()
	token, err := auth.GenerateAccessToken("p-"+string(role), string(role)+"@example.com", role, testSecret)
	require.NoError(t, err)
	return token
}

func do(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	s.router.ServeHTTP(w, req)
	return w
}

func TestSystemRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gymconnect_http_requests_total")

	w = do(s, http.MethodGet, "/subscriptions/plans", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "single_gym_lite")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s, _ := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/bookings"},
		{http.MethodGet, "/bookings"},
		{http.MethodPut, "/availability/1"},
		{http.MethodPost, "/reviews"},
		{http.MethodGet, "/gym/subscriptions"},
	} {
		w := do(s, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestCapabilityGuards(t *testing.T) {
	s, mock := newTestServer(t)

	tests := []struct {
		method, path string
		role         auth.Role
	}{
		{http.MethodPost, "/bookings", auth.RoleTrainer},
		{http.MethodPost, "/bookings", auth.RoleGymOwner},
		{http.MethodPut, "/availability/1", auth.RoleUser},
		{http.MethodGet, "/trainer/analytics/bookings", auth.RoleUser},
		{http.MethodPost, "/reviews", auth.RoleGymOwner},
		{http.MethodPost, "/gym/subscriptions", auth.RoleTrainer},
		{http.MethodGet, "/gym/subscriptions", auth.RoleUser},
	}

	for _, tt := range tests {
		w := do(s, tt.method, tt.path, tokenFor(t, tt.role), `{}`)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s as %s", tt.method, tt.path, tt.role)
		assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBindingErrorsUseJSONNames(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, http.MethodPost, "/bookings", tokenFor(t, auth.RoleUser), `{"start_time":"09:00","end_time":"10:00"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "trainer_id is required")
	assert.Contains(t, w.Body.String(), `"code":"invalid_request"`)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	s, _ := newTestServer(t)

	refresh, err := auth.GenerateRefreshToken("p1", "a@example.com", auth.RoleUser, testSecret)
	require.NoError(t, err)

	w := do(s, http.MethodGet, "/me", refresh, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
