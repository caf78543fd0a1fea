package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCapacities handles GET /api/capacities.
func (h *Handler) GetCapacities(c *gin.Context) {
	capacities, err := h.engine.Capacities(c.Request.Context())
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, capacities)
}

type putCapacityRequest struct {
	Capacity *int `json:"capacity" binding:"required"`
}

// PutCapacity handles PUT /api/capacities/:room.
func (h *Handler) PutCapacity(c *gin.Context) {
	var req putCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := c.Param("room")
	if err := h.engine.SetCapacity(c.Request.Context(), room, *req.Capacity); err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteRoom handles DELETE /api/capacities/:room. The force query flag
// allows removal of an occupied room; its ledger history is kept either way.
func (h *Handler) DeleteRoom(c *gin.Context) {
	force := c.Query("force") == "true"
	if err := h.engine.RemoveRoom(c.Request.Context(), c.Param("room"), force); err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
