package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gym-aforo-backend/internal/aforo"
	"gym-aforo-backend/internal/db"
	"gym-aforo-backend/internal/model"
	"gym-aforo-backend/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(testDB))

	appStore := store.NewGormStore(testDB)
	engine, err := aforo.New(context.Background(), appStore, aforo.Config{
		DefaultCapacity: 30,
		DefaultRooms:    map[string]int{"Spinning": 2, "Cardio": 30},
	}, nil)
	require.NoError(t, err)

	return NewRouter(engine, appStore, nil, RouterConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTL:        time.Minute,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckInEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u1","room":"Spinning"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var ev model.AttendanceEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, model.DirectionIn, ev.Direction)

	// Same user again: conflict.
	w = doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u1","room":"Spinning"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Fill the room, then the gate closes.
	w = doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u2","room":"Spinning"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u3","room":"Spinning"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "capacity")
}

func TestCheckInEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/checkin", `{"room":"Spinning"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/checkin", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckOutEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/checkout", `{"user_id":"u9","room":"Pesas"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u9","room":"Pesas"}`)
	w = doJSON(t, router, http.MethodPost, "/api/checkout", `{"user_id":"u9","room":"Pesas"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/checkout", `{"user_id":"u9","room":"Pesas"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCapacityEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/capacities", "")
	require.Equal(t, http.StatusOK, w.Code)
	var capacities map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &capacities))
	assert.Equal(t, 2, capacities["Spinning"])

	w = doJSON(t, router, http.MethodPut, "/api/capacities/Zumba", `{"capacity":12}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/capacities/Zumba", `{"capacity":-3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/capacities/Zumba", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRoomEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u1","room":"Cardio"}`)

	w := doJSON(t, router, http.MethodDelete, "/api/capacities/Cardio", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/capacities/Cardio?force=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStatusAndSummaryEndpoints(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u1","room":"Spinning"}`)
	doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u2","room":"Spinning"}`)

	w := doJSON(t, router, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var statuses map[string]model.OccupancyStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statuses))
	assert.Equal(t, 2, statuses["Spinning"].CurrentOccupancy)
	assert.Equal(t, model.AlertCritical, statuses["Spinning"].AlertLevel)
	assert.Equal(t, 0, statuses["Spinning"].Available)

	w = doJSON(t, router, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary model.GlobalSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalCurrent)
	assert.Equal(t, 32, summary.TotalCapacity)
	assert.Equal(t, 1, summary.CriticalRooms)
	assert.Equal(t, 1, summary.SafeRooms)

	w = doJSON(t, router, http.MethodGet, "/api/occupancy", "")
	require.Equal(t, http.StatusOK, w.Code)
	var occupancy map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &occupancy))
	assert.Equal(t, 2, occupancy["Spinning"])
	assert.Equal(t, 0, occupancy["Cardio"])
}

func TestEventsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u1","room":"Cardio"}`)
	doJSON(t, router, http.MethodPost, "/api/checkin", `{"user_id":"u2","room":"Cardio"}`)
	doJSON(t, router, http.MethodPost, "/api/checkout", `{"user_id":"u1","room":"Cardio"}`)

	w := doJSON(t, router, http.MethodGet, "/api/events?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var events []model.AttendanceEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, model.DirectionOut, events[0].Direction)

	w = doJSON(t, router, http.MethodGet, "/api/events?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVAPIDKeyUnconfigured(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/vapid_public_key", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
