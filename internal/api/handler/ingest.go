package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
	"github.com/timmy/ingestq/internal/scheduler"
	"github.com/timmy/ingestq/internal/service"
)

// IngestHandler handles submission and progress endpoints.
type IngestHandler struct {
	ingestService *service.IngestService
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingestService *service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

// IngestRequest is the body of POST /api/v1/ingest. ids may be empty but must be present.
type IngestRequest struct {
	IDs      []int  `json:"ids" binding:"required"`
	Priority string `json:"priority" binding:"required"`
}

// IngestResponse is returned once the ingestion is queued.
type IngestResponse struct {
	IngestionID string `json:"ingestion_id"`
}

// EventsResponse lists the dispatch history of an ingestion.
type EventsResponse struct {
	IngestionID string              `json:"ingestion_id"`
	Events      []domain.BatchEvent `json:"events"`
}

// Ingest handles POST /api/v1/ingest.
func (h *IngestHandler) Ingest(c *gin.Context) {
	ctx := c.Request.Context()

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.CtxWarn(ctx, "Invalid ingest request: client_ip=%s, error=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		logger.CtxWarn(ctx, "Invalid ingest priority: priority=%q, client_ip=%s", req.Priority, c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be one of HIGH, MEDIUM, LOW"})
		return
	}

	id, err := h.ingestService.Submit(ctx, req.IDs, priority)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, IngestResponse{IngestionID: id})
}

// GetStatus handles GET /api/v1/status/:ingestion_id.
func (h *IngestHandler) GetStatus(c *gin.Context) {
	ctx := logger.SetIngestionID(c.Request.Context(), c.Param("ingestion_id"))

	st, err := h.ingestService.Status(ctx, c.Param("ingestion_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	logger.CtxDebug(ctx, "Status served: status=%s, batches=%d", st.Status, len(st.Batches))
	c.JSON(http.StatusOK, st)
}

// GetEvents handles GET /api/v1/status/:ingestion_id/events.
func (h *IngestHandler) GetEvents(c *gin.Context) {
	id := c.Param("ingestion_id")
	ctx := logger.SetIngestionID(c.Request.Context(), id)

	events, err := h.ingestService.Events(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if events == nil {
		events = []domain.BatchEvent{}
	}

	c.JSON(http.StatusOK, EventsResponse{IngestionID: id, Events: events})
}

// writeError maps service errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, scheduler.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ingestion not found"})
	case errors.Is(err, scheduler.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrQueueFull):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		ctx := c.Request.Context()
		logger.CtxError(ctx, "Request failed: error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "internal error",
			"request_id": logger.GetRequestID(ctx),
		})
	}
}
