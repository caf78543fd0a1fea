package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"gym-aforo-backend/internal/aforo"
	"gym-aforo-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine  *aforo.Engine
	store   store.Store
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(engine *aforo.Engine, s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		engine:  engine,
		store:   s,
		webpush: webpushOptions,
	}
}

// abortWithEngineError maps the engine's business errors onto HTTP statuses.
// They are client errors, never retryable server faults.
func abortWithEngineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, aforo.ErrInvalidUser),
		errors.Is(err, aforo.ErrInvalidCapacity),
		errors.Is(err, aforo.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, aforo.ErrNoOpenSession):
		status = http.StatusNotFound
	case errors.Is(err, aforo.ErrDuplicateCheckIn),
		errors.Is(err, aforo.ErrDuplicateCheckOut),
		errors.Is(err, aforo.ErrCapacityExceeded),
		errors.Is(err, aforo.ErrRoomInUse):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
