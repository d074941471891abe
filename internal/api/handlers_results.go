// handlers_results.go - Views over a stored analysis
package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/chart"
	"github.com/mtbf-analyzer/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultTopN is the ranking size when no limit is given.
const DefaultTopN = 10

// workOrdersResponse is the work order list, optionally filtered to one equipment.
type workOrdersResponse struct {
	WorkOrders []models.WorkOrder `json:"workOrders" msgpack:"workOrders"`
	Total      int                `json:"total" msgpack:"total"`
	Equipment  string             `json:"equipment,omitempty" msgpack:"equipment,omitempty"`
}

// equipmentStatsResponse is the reliability view of one equipment.
type equipmentStatsResponse struct {
	Equipment string `json:"equipment"`
	models.ReliabilityStats
	MTBFText string `json:"mtbfText"`
}

// ResultsHandlerImpl implements the ResultsHandler interface
type ResultsHandlerImpl struct {
	sessions SessionStore
	topN     int
}

// NewResultsHandler creates a new results handler instance
func NewResultsHandler(sessions SessionStore, topN int) ResultsHandler {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &ResultsHandlerImpl{
		sessions: sessions,
		topN:     topN,
	}
}

// result looks up the analysis named by the :id path parameter.
func (h *ResultsHandlerImpl) result(c echo.Context) (*models.AnalysisResult, error) {
	id := c.Param("id")
	if id == "" {
		return nil, NewValidationError("id")
	}

	result, ok := h.sessions.GetResult(id)
	if !ok {
		return nil, NewNotFoundError("analysis", id)
	}
	if result == nil {
		return nil, NewConflictError("analysis has no work orders; submit a column mapping first")
	}
	return result, nil
}

// HandleGetAnalysis returns the session record and full result of an analysis
func (h *ResultsHandlerImpl) HandleGetAnalysis(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	sess, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("analysis", id)
	}
	result, _ := h.sessions.GetResult(id)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":  sess,
		"analysis": result,
	})
}

// HandleDeleteAnalysis discards a stored analysis
func (h *ResultsHandlerImpl) HandleDeleteAnalysis(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if !h.sessions.Delete(id) {
		return NewNotFoundError("analysis", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleKeepAlive extends session lifetime for active viewing
func (h *ResultsHandlerImpl) HandleKeepAlive(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if ok := h.sessions.Touch(id); !ok {
		return NewNotFoundError("analysis", id)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ResultsHandlerImpl) workOrders(c echo.Context) (*workOrdersResponse, error) {
	result, err := h.result(c)
	if err != nil {
		return nil, err
	}

	equipment := c.QueryParam("equipment")
	orders := analysis.FilterByEquipment(result.WorkOrders, equipment)
	return &workOrdersResponse{
		WorkOrders: orders,
		Total:      len(orders),
		Equipment:  equipment,
	}, nil
}

// HandleGetWorkOrders returns the date-sorted work orders, optionally for one equipment
func (h *ResultsHandlerImpl) HandleGetWorkOrders(c echo.Context) error {
	resp, err := h.workOrders(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleGetWorkOrdersMsgpack is HandleGetWorkOrders with msgpack encoding
func (h *ResultsHandlerImpl) HandleGetWorkOrdersMsgpack(c echo.Context) error {
	resp, err := h.workOrders(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(resp)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetEquipment returns the sorted distinct equipment ids
func (h *ResultsHandlerImpl) HandleGetEquipment(c echo.Context) error {
	result, err := h.result(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analysis.EquipmentNames(result.WorkOrders))
}

// HandleGetEquipmentStats returns MTBF and category counts for one equipment
func (h *ResultsHandlerImpl) HandleGetEquipmentStats(c echo.Context) error {
	result, err := h.result(c)
	if err != nil {
		return err
	}

	equipment := c.Param("equipment")
	if unescaped, err := url.PathUnescape(equipment); err == nil {
		equipment = unescaped
	}
	if equipment == "" {
		return NewValidationError("equipment")
	}

	stats, ok := analysis.FilterStats(analysis.FilterByEquipment(result.WorkOrders, equipment))
	if !ok {
		return NewNotFoundError("equipment", equipment)
	}

	return c.JSON(http.StatusOK, equipmentStatsResponse{
		Equipment:        equipment,
		ReliabilityStats: stats,
		MTBFText:         analysis.FormatHours(stats.MTBF),
	})
}

// rankParams reads the by and limit query parameters.
func (h *ResultsHandlerImpl) rankParams(c echo.Context) (analysis.RankBy, int, error) {
	by, err := analysis.ParseRankBy(c.QueryParam("by"))
	if err != nil {
		return "", 0, NewBadRequestError("invalid ranking", err)
	}

	limit := h.topN
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return "", 0, NewValidationError("limit")
		}
		limit = n
	}
	return by, limit, nil
}

// HandleGetTopEquipment ranks equipment by work order count or total cost
func (h *ResultsHandlerImpl) HandleGetTopEquipment(c echo.Context) error {
	result, err := h.result(c)
	if err != nil {
		return err
	}
	by, limit, err := h.rankParams(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"by":        by,
		"equipment": analysis.TopEquipment(result.EquipmentStats, by, limit),
	})
}

// HandleGetPareto renders the top equipment by work order count as a PNG
func (h *ResultsHandlerImpl) HandleGetPareto(c echo.Context) error {
	result, err := h.result(c)
	if err != nil {
		return err
	}

	ranks := analysis.TopEquipment(result.EquipmentStats, analysis.RankByCount, h.topN)

	var buf bytes.Buffer
	if err := chart.RenderPareto(&buf, ranks, "png"); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			return NewConflictError("analysis has no equipment to chart")
		}
		return NewInternalError("failed to render chart", err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
