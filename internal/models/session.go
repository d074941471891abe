package models

// SessionStatus represents the outcome of a page scan.
type SessionStatus string

const (
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusNoData   SessionStatus = "no_data"
)

// AnalysisSession describes a stored analysis that follow-up queries
// (equipment filter, rankings, chart) can refer to by ID.
type AnalysisSession struct {
	ID               string        `json:"id"`
	Status           SessionStatus `json:"status"`
	Source           string        `json:"source,omitempty"` // "tables", "html", "mapping"
	TableCount       int           `json:"tableCount"`
	WorkOrderCount   int           `json:"workOrderCount"`
	EquipmentCount   int           `json:"equipmentCount"`
	ProcessingTimeMs int64         `json:"processingTimeMs"`
	CreatedAt        int64         `json:"createdAt"` // Unix ms
}

// NewAnalysisSession creates a session record for a finished analysis.
// A nil result marks a scan that found no work orders.
func NewAnalysisSession(id, source string, tableCount int, result *AnalysisResult) *AnalysisSession {
	s := &AnalysisSession{
		ID:         id,
		Status:     SessionStatusNoData,
		Source:     source,
		TableCount: tableCount,
	}
	if result != nil {
		s.Status = SessionStatusComplete
		s.WorkOrderCount = len(result.WorkOrders)
		s.EquipmentCount = len(result.EquipmentStats)
	}
	return s
}
