// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/mtbf-analyzer/backend/internal/analysis"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Sessions  SessionStore
	Options   analysis.Options
	MaxUpload int64
	TopN      int
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Analysis AnalysisHandler
	Results  ResultsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.Sessions),
		Analysis: NewAnalysisHandler(deps.Sessions, deps.Options, deps.MaxUpload),
		Results:  NewResultsHandler(deps.Sessions, deps.TopN),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/health", handlers.Health.HandleHealth)
	e.GET("/api/columns/patterns", handlers.Analysis.HandleGetPatterns)

	// Analysis routes
	g := e.Group("/api/analyses")
	g.POST("", handlers.Analysis.HandleAnalyze)
	g.POST("/upload", handlers.Analysis.HandleUpload)
	g.POST("/mapping", handlers.Analysis.HandleAnalyzeMapping)
	g.GET("/:id", handlers.Results.HandleGetAnalysis)
	g.DELETE("/:id", handlers.Results.HandleDeleteAnalysis)
	g.POST("/:id/keepalive", handlers.Results.HandleKeepAlive)
	g.GET("/:id/work-orders", handlers.Results.HandleGetWorkOrders)
	g.GET("/:id/work-orders/msgpack", handlers.Results.HandleGetWorkOrdersMsgpack)
	g.GET("/:id/equipment", handlers.Results.HandleGetEquipment)
	g.GET("/:id/equipment/:equipment/stats", handlers.Results.HandleGetEquipmentStats)
	g.GET("/:id/top", handlers.Results.HandleGetTopEquipment)
	g.GET("/:id/pareto.png", handlers.Results.HandleGetPareto)
}

// SetupMiddleware installs the API error handler.
func SetupMiddleware(e *echo.Echo, showErrorDetails bool) {
	e.HTTPErrorHandler = ErrorHandler(showErrorDetails)
}
