package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type attendanceRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Room   string `json:"room" binding:"required"`
}

// PostCheckIn handles POST /api/checkin. A full room answers 409 so the
// front end can tell the member the room is full.
func (h *Handler) PostCheckIn(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.engine.CheckIn(c.Request.Context(), req.UserID, req.Room)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// PostCheckOut handles POST /api/checkout.
func (h *Handler) PostCheckOut(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.engine.CheckOut(c.Request.Context(), req.UserID, req.Room)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// GetEvents handles GET /api/events?limit=n, most recent first.
func (h *Handler) GetEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	events, err := h.engine.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
