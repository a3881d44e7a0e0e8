package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
)

// HealthSource reports the scheduler backlog and the journal totals.
type HealthSource interface {
	QueueDepth() int
	JournalCounts(ctx context.Context) (map[domain.Status]int64, error)
}

// HealthHandler handles liveness endpoints
type HealthHandler struct {
	source HealthSource
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(source HealthSource) *HealthHandler {
	return &HealthHandler{source: source}
}

// Root confirms the service is reachable.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Service is up and running!",
	})
}

// Health returns the health status of the service. An unreadable journal makes it degraded.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	depth := h.source.QueueDepth()

	counts, err := h.source.JournalCounts(ctx)
	if err != nil {
		_ = c.Error(err)
		logger.CtxWarn(ctx, "Health check could not read journal: error=%v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":      "degraded",
			"queue_depth": depth,
			"error":       "journal unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"queue_depth": depth,
		"journal":     counts,
	})
}
