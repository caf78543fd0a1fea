package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetOccupancy handles GET /api/occupancy: the clamped live head count for
// every room seen in the ledger, plus registered rooms at zero.
func (h *Handler) GetOccupancy(c *gin.Context) {
	occupancy, err := h.engine.OccupancyNow(c.Request.Context())
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, occupancy)
}

// GetStatus handles GET /api/status: per-room occupancy, capacity,
// percentage and alert level for every registered room.
func (h *Handler) GetStatus(c *gin.Context) {
	statuses, err := h.engine.Status(c.Request.Context())
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// GetSummary handles GET /api/summary: the gym-wide rollup.
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.engine.GlobalSummary(c.Request.Context())
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
