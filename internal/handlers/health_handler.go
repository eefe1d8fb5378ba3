package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	ping      func(ctx context.Context) error
	aiEnabled bool
}

// NewHealthHandler creates a new HealthHandler. ping checks the database.
func NewHealthHandler(ping func(ctx context.Context) error, aiEnabled bool) *HealthHandler {
	return &HealthHandler{ping: ping, aiEnabled: aiEnabled}
}

// Health reports the database status and whether AI classification is on
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} object "Healthy"
// @Failure     503 {object} object "Database unavailable"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down", "ai": h.aiEnabled})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up", "ai": h.aiEnabled})
}
