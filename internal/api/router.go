package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timmy/ingestq/internal/api/handler"
	"github.com/timmy/ingestq/internal/api/middleware"
	"github.com/timmy/ingestq/internal/config"
	"github.com/timmy/ingestq/internal/logger"
	"github.com/timmy/ingestq/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	ingestService *service.IngestService,
	cfg *config.ServerConfig,
	log *logger.Logger,
) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(ingestService)
	ingestHandler := handler.NewIngestHandler(ingestService)

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/ingest", ingestHandler.Ingest)
		v1.GET("/status/:ingestion_id", ingestHandler.GetStatus)
		v1.GET("/status/:ingestion_id/events", ingestHandler.GetEvents)
	}

	return r
}
