// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mtbf-analyzer/backend/internal/models"
)

// AnalysisHandler runs analyses over submitted tables, HTML or uploaded exports
type AnalysisHandler interface {
	HandleAnalyze(c echo.Context) error
	HandleUpload(c echo.Context) error
	HandleAnalyzeMapping(c echo.Context) error
	HandleGetPatterns(c echo.Context) error
}

// ResultsHandler serves views over a stored analysis
type ResultsHandler interface {
	HandleGetAnalysis(c echo.Context) error
	HandleDeleteAnalysis(c echo.Context) error
	HandleKeepAlive(c echo.Context) error
	HandleGetWorkOrders(c echo.Context) error
	HandleGetWorkOrdersMsgpack(c echo.Context) error
	HandleGetEquipment(c echo.Context) error
	HandleGetEquipmentStats(c echo.Context) error
	HandleGetTopEquipment(c echo.Context) error
	HandleGetPareto(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionStore defines the interface for analysis session storage
// This allows mocking in tests
type SessionStore interface {
	Create(source string, tables []models.RawTable, result *models.AnalysisResult, elapsed time.Duration) *models.AnalysisSession
	Get(id string) (*models.AnalysisSession, bool)
	GetResult(id string) (*models.AnalysisResult, bool)
	GetTables(id string) ([]models.RawTable, bool)
	Touch(id string) bool
	Delete(id string) bool
	Count() int
}
