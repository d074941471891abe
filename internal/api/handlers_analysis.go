// handlers_analysis.go - Table scan and manual mapping handlers
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/models"
	"github.com/mtbf-analyzer/backend/internal/parser"
	"github.com/mtbf-analyzer/backend/internal/upload"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "internal/api"

// analyzeRequest carries either pre-extracted tables or a raw HTML page.
type analyzeRequest struct {
	Tables []models.RawTable `json:"tables"`
	HTML   string            `json:"html"`
}

// mappingRequest analyzes one table under a user-supplied mapping. The
// table comes from a stored scan (id) or from the request itself.
type mappingRequest struct {
	ID         string               `json:"id"`
	Tables     []models.RawTable    `json:"tables"`
	HTML       string               `json:"html"`
	TableIndex int                  `json:"tableIndex"`
	Mapping    models.ColumnMapping `json:"mapping"`
}

// analyzeResponse is returned by both analysis endpoints.
type analyzeResponse struct {
	ID       string                 `json:"id"`
	Success  bool                   `json:"success"`
	Message  string                 `json:"message,omitempty"`
	Analysis *models.AnalysisResult `json:"analysis"`
	Mapping  models.ColumnMapping   `json:"mapping,omitempty"`
	Tables   []models.RawTable      `json:"tables,omitempty"`
}

// AnalysisHandlerImpl implements the AnalysisHandler interface
type AnalysisHandlerImpl struct {
	sessions  SessionStore
	opts      analysis.Options
	maxUpload int64
}

// NewAnalysisHandler creates a new analysis handler instance. maxUpload
// bounds the decoded size of an uploaded export; zero uses the default.
func NewAnalysisHandler(sessions SessionStore, opts analysis.Options, maxUpload int64) AnalysisHandler {
	return &AnalysisHandlerImpl{
		sessions:  sessions,
		opts:      opts,
		maxUpload: maxUpload,
	}
}

// HandleAnalyze scans every table of a page and stores the combined analysis.
func (h *AnalysisHandlerImpl) HandleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	tables, source, err := resolveTables(req.Tables, req.HTML)
	if err != nil {
		return err
	}
	return h.analyzeTables(c, tables, source)
}

// HandleUpload analyzes an exported file sent as the multipart field "file".
// HTML, CSV and JSON exports are accepted, plain or gzip compressed.
func (h *AnalysisHandlerImpl) HandleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewValidationError("file")
	}
	f, err := fh.Open()
	if err != nil {
		return NewInternalError("failed to open upload", err)
	}
	defer f.Close()

	doc, err := upload.Read(fh.Filename, f, h.maxUpload)
	if errors.Is(err, upload.ErrTooLarge) {
		return NewTooLargeError(err)
	}
	if err != nil {
		return NewBadRequestError("failed to read upload", err)
	}

	tables, source, err := parser.GetGlobalRegistry().Scan(doc.Name, doc.Data)
	if err != nil {
		return NewBadRequestError("unsupported document", err)
	}
	slog.Debug("upload scanned",
		slog.String("name", doc.Name),
		slog.String("encoding", doc.Encoding),
		slog.Int64("size", doc.Size),
		slog.String("source", source),
		slog.Int("tables", len(tables)))

	return h.analyzeTables(c, tables, source)
}

// analyzeTables runs the multi-table analysis and stores the outcome.
// A document without work order tables is stored too, so the client can
// follow up with a manual mapping against the returned tables.
func (h *AnalysisHandlerImpl) analyzeTables(c echo.Context, tables []models.RawTable, source string) error {
	ctx, span := otel.Tracer(tracerName).Start(c.Request().Context(), "analysis.analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("analysis.source", source),
		attribute.Int("analysis.tables", len(tables)),
	)
	c.SetRequest(c.Request().WithContext(ctx))

	start := time.Now()
	result, err := analysis.Analyze(tables, h.opts)
	elapsed := time.Since(start)

	if errors.Is(err, analysis.ErrNoWorkOrders) {
		span.SetAttributes(attribute.Int("analysis.work_orders", 0))
		sess := h.sessions.Create(source, tables, nil, elapsed)
		return c.JSON(http.StatusOK, analyzeResponse{
			ID:      sess.ID,
			Success: false,
			Message: "No work order tables found. Map the columns of one table manually.",
			Tables:  tables,
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fromAnalysisError(err)
	}

	span.SetAttributes(
		attribute.Int("analysis.work_orders", len(result.WorkOrders)),
		attribute.Int("analysis.equipment", len(result.EquipmentStats)),
	)

	sess := h.sessions.Create(source, tables, result, elapsed)

	var primary models.ColumnMapping
	if len(result.ProcessedTables) > 0 {
		primary = result.ProcessedTables[0].Mapping
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		ID:       sess.ID,
		Success:  true,
		Analysis: result,
		Mapping:  primary,
		Tables:   tables,
	})
}

// HandleAnalyzeMapping analyzes a single table under a caller-supplied mapping.
func (h *AnalysisHandlerImpl) HandleAnalyzeMapping(c echo.Context) error {
	var req mappingRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if len(req.Mapping) == 0 {
		return NewValidationError("mapping")
	}

	var tables []models.RawTable
	if req.ID != "" {
		stored, ok := h.sessions.GetTables(req.ID)
		if !ok {
			return NewNotFoundError("analysis", req.ID)
		}
		tables = stored
	} else {
		var err error
		if tables, _, err = resolveTables(req.Tables, req.HTML); err != nil {
			return err
		}
	}

	if req.TableIndex < 0 || req.TableIndex >= len(tables) {
		return NewValidationError("tableIndex")
	}
	table := tables[req.TableIndex]

	_, span := otel.Tracer(tracerName).Start(c.Request().Context(), "analysis.analyze_one")
	defer span.End()
	span.SetAttributes(attribute.Int("analysis.table_index", req.TableIndex))

	start := time.Now()
	result, err := analysis.AnalyzeOne(table, req.Mapping)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fromAnalysisError(err)
	}

	sess := h.sessions.Create("mapping", []models.RawTable{table}, result, time.Since(start))
	return c.JSON(http.StatusOK, analyzeResponse{
		ID:       sess.ID,
		Success:  true,
		Analysis: result,
		Mapping:  req.Mapping,
	})
}

// HandleGetPatterns returns the active column keyword lists
func (h *AnalysisHandlerImpl) HandleGetPatterns(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patterns":         h.opts.Patterns,
		"minHeaderColumns": h.opts.MinHeaderColumns,
	})
}

// resolveTables returns the request tables, scanning html when no tables were sent.
func resolveTables(tables []models.RawTable, html string) ([]models.RawTable, string, error) {
	if len(tables) > 0 {
		return tables, "tables", nil
	}
	if strings.TrimSpace(html) == "" {
		return nil, "", NewValidationError("tables or html")
	}

	scanned, err := parser.ScanHTMLTables(strings.NewReader(html))
	if err != nil {
		return nil, "", NewBadRequestError("failed to read html", err)
	}
	return scanned, "html", nil
}
