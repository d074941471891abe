package models

// EquipmentStats aggregates the work orders of one equipment id.
type EquipmentStats struct {
	Count     int     `json:"count" msgpack:"count"`
	TotalCost float64 `json:"totalCost" msgpack:"totalCost"`
	FirstDate int64   `json:"firstDate" msgpack:"firstDate"` // Unix ms
	LastDate  int64   `json:"lastDate" msgpack:"lastDate"`   // Unix ms
	MTBF      float64 `json:"mtbf" msgpack:"mtbf"`           // hours
}

// SummaryStats holds the aggregate counters of an analysis.
type SummaryStats struct {
	TotalWorkOrders int     `json:"totalWorkOrders"`
	TotalCost       float64 `json:"totalCost"`
	AverageCost     float64 `json:"averageCost"`
	MTBF            float64 `json:"mtbf"`        // hours
	FailureRate     float64 `json:"failureRate"` // failures per 8760 h
	CMCount         int     `json:"cmCount"`
	PMCount         int     `json:"pmCount"`
	PDMCount        int     `json:"pdmCount"`
	TimeSpan        float64 `json:"timeSpan"` // hours between first and last CM
	ProcessedTables int     `json:"processedTables,omitempty"`
	IsPMOnly        bool    `json:"isPMOnly"`
}

// ProcessedTable records a page table that contributed work orders.
type ProcessedTable struct {
	Index          int           `json:"index"`
	Mapping        ColumnMapping `json:"mapping"`
	WorkOrderCount int           `json:"workOrderCount"`
	SkippedRows    int           `json:"skippedRows"`
}

// AnalysisResult is the output of one analysis invocation.
type AnalysisResult struct {
	WorkOrders      []WorkOrder                `json:"workOrders"`
	EquipmentStats  map[string]*EquipmentStats `json:"equipmentStats"`
	Summary         SummaryStats               `json:"summary"`
	ProcessedTables []ProcessedTable           `json:"processedTables,omitempty"`
}

// NewAnalysisResult creates an empty result.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		WorkOrders:     make([]WorkOrder, 0),
		EquipmentStats: make(map[string]*EquipmentStats),
	}
}

// ReliabilityStats is the MTBF view of an arbitrary set of work orders,
// used for the page summary and for the per-equipment filter.
type ReliabilityStats struct {
	MTBF            float64 `json:"mtbf"`
	FailureRate     float64 `json:"failureRate"`
	TimeSpan        float64 `json:"timeSpan"`
	TotalWorkOrders int     `json:"totalWorkOrders"`
	CMCount         int     `json:"cmCount"`
	PMCount         int     `json:"pmCount"`
	PDMCount        int     `json:"pdmCount"`
	Note            string  `json:"note,omitempty"`
	IsPMOnly        bool    `json:"isPMOnly"`
}
