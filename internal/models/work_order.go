// Package models contains domain types for the MTBF Work Order Analyzer.
package models

import (
	"strings"
	"time"
)

// WorkClass is the maintenance category of a work order.
type WorkClass string

const (
	WorkClassCM    WorkClass = "CM"  // corrective: counts as a failure
	WorkClassPM    WorkClass = "PM"  // preventive
	WorkClassPDM   WorkClass = "PDM" // predictive
	WorkClassOther WorkClass = "other"
)

// ClassifyWorkType returns the category of an uppercased work type string.
// CM is checked before PM and PM before PDM, so "CM/PM" is corrective.
func ClassifyWorkType(workType string) WorkClass {
	switch {
	case strings.Contains(workType, "CM"):
		return WorkClassCM
	case strings.Contains(workType, "PM"):
		return WorkClassPM
	case strings.Contains(workType, "PDM"):
		return WorkClassPDM
	default:
		return WorkClassOther
	}
}

// WorkOrder is a single maintenance record extracted from one table row.
type WorkOrder struct {
	Equipment string  `json:"equipment" msgpack:"equipment"`
	Date      int64   `json:"date" msgpack:"date"` // Unix ms
	Cost      float64 `json:"cost" msgpack:"cost"`
	WorkType  string  `json:"workType" msgpack:"workType"`
}

// Class returns the maintenance category of the work order.
func (w WorkOrder) Class() WorkClass {
	return ClassifyWorkType(w.WorkType)
}

// IsCorrective reports whether the work order is a failure event.
func (w WorkOrder) IsCorrective() bool {
	return w.Class() == WorkClassCM
}

// Time returns the work order date as a UTC time.
func (w WorkOrder) Time() time.Time {
	return time.UnixMilli(w.Date).UTC()
}

// SkippedRow describes a table row that did not produce a work order.
type SkippedRow struct {
	Row    int    `json:"row"` // zero-based body row index
	Reason string `json:"reason"`
}
