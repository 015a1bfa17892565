package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/pembrokehq/reflect-backend/internal/http/handlers"
	httpMW "github.com/pembrokehq/reflect-backend/internal/http/middleware"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler   *httpH.HealthHandler
	ExtractHandler  *httpH.ExtractHandler
	AgendaHandler   *httpH.AgendaHandler
	SessionHandler  *httpH.SessionHandler
	AnalysisHandler *httpH.AnalysisHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("reflect-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ExtractHandler != nil {
			api.POST("/extract-text", cfg.ExtractHandler.ExtractText)
		}

		if cfg.AgendaHandler != nil {
			api.POST("/agendas", cfg.AgendaHandler.CreateAgenda)
			api.GET("/agendas/:id", cfg.AgendaHandler.GetAgenda)
		}

		if cfg.SessionHandler != nil {
			api.POST("/sessions", cfg.SessionHandler.CreateSession)
			api.GET("/sessions/:id", cfg.SessionHandler.GetSession)
		}

		if cfg.AnalysisHandler != nil {
			api.POST("/sessions/:id/notes", cfg.AnalysisHandler.SubmitNotes)
			api.GET("/sessions/:id/report", cfg.AnalysisHandler.GetReport)
		}
	}

	return r
}
