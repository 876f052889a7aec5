package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/auth"
	"gymconnect/internal/slot"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) WindowsFor(ctx context.Context, trainerID string, day time.Weekday) ([]Window, error) {
	args := m.Called(ctx, trainerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Window), args.Error(1)
}

func (m *MockService) ListForTrainer(ctx context.Context, trainerID string) ([]Window, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Window), args.Error(1)
}

func (m *MockService) ReplaceDay(ctx context.Context, actor auth.Identity, day int, inputs []WindowInput) ([]Window, error) {
	args := m.Called(ctx, actor, day, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Window), args.Error(1)
}

func setupRouter(svc Service, identity *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)

	r.Use(func(c *gin.Context) {
		if identity != nil {
			auth.SetIdentity(c, *identity)
		}
		c.Next()
	})
	r.GET("/trainers/:trainerID/availability", h.ListWindows)
	r.PUT("/availability/:day", h.ReplaceDay)
	return r
}

func TestListWindowsForDay(t *testing.T) {
	svc := new(MockService)
	svc.On("WindowsFor", mock.Anything, "trainer-1", time.Monday).Return([]Window{{
		ID: "w-1", TrainerID: "trainer-1", DayOfWeek: 1,
		StartTime: slot.NewClock(9, 0), EndTime: slot.NewClock(12, 0), Available: true,
	}}, nil)

	r := setupRouter(svc, &trainer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trainers/trainer-1/availability?day=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var windows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &windows))
	require.Len(t, windows, 1)
	assert.Equal(t, "09:00", windows[0]["start_time"])
	assert.Equal(t, "12:00", windows[0]["end_time"])
	svc.AssertExpectations(t)
}

func TestListWindowsAllDays(t *testing.T) {
	svc := new(MockService)
	svc.On("ListForTrainer", mock.Anything, "trainer-1").Return([]Window{}, nil)

	r := setupRouter(svc, &trainer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trainers/trainer-1/availability", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListWindowsInvalidDay(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc, &trainer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trainers/trainer-1/availability?day=9", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "WindowsFor", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplaceDayHandler(t *testing.T) {
	svc := new(MockService)
	inputs := []WindowInput{{StartTime: slot.NewClock(9, 0), EndTime: slot.NewClock(11, 30)}}
	svc.On("ReplaceDay", mock.Anything, trainer, 2, inputs).Return([]Window{{
		ID: "w-1", TrainerID: "trainer-1", DayOfWeek: 2,
		StartTime: slot.NewClock(9, 0), EndTime: slot.NewClock(11, 30), Available: true,
	}}, nil)

	r := setupRouter(svc, &trainer)
	body := bytes.NewBufferString(`{"windows":[{"start_time":"09:00","end_time":"11:30"}]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/availability/2", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReplaceDayHandlerRejectsBadClock(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc, &trainer)

	body := bytes.NewBufferString(`{"windows":[{"start_time":"9am","end_time":"11:30"}]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/availability/2", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceDayHandlerMapsServiceErrors(t *testing.T) {
	user := auth.Identity{ProfileID: "user-1", Role: auth.RoleUser}
	svc := new(MockService)
	svc.On("ReplaceDay", mock.Anything, user, 2, mock.Anything).Return(nil, apperr.ErrUnauthorized)

	r := setupRouter(svc, &user)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/availability/2", bytes.NewBufferString(`{"windows":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
}

func TestReplaceDayHandlerRequiresIdentity(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/availability/2", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
