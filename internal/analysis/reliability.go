package analysis

import (
	"sort"

	"github.com/mtbf-analyzer/backend/internal/models"
)

const (
	// HoursPerYear is the period failure rates are expressed in.
	HoursPerYear = 8760
	msPerHour    = 1000 * 60 * 60
)

// Notes attached to a ReliabilityStats when MTBF cannot be computed.
const (
	NoteNoCorrective     = "No corrective maintenance work orders found. MTBF cannot be calculated."
	NoteSingleCorrective = "Single CM work order - insufficient data for MTBF calculation"
	NoteInvalidRange     = "Invalid date range for CM work orders"
)

func spanHours(first, last int64) float64 {
	return float64(last-first) / msPerHour
}

// Reliability computes MTBF and failure rate over the corrective work orders
// in orders. With fewer than two CM work orders, or when every CM work order
// has the same date, MTBF and failure rate are 0 and Note says why.
func Reliability(orders []models.WorkOrder) models.ReliabilityStats {
	tally := Tally(orders)
	rs := models.ReliabilityStats{
		TotalWorkOrders: len(orders),
		CMCount:         tally.CM,
		PMCount:         tally.PM,
		PDMCount:        tally.PDM,
		IsPMOnly:        tally.CM == 0 && tally.PM > 0,
	}

	switch tally.CM {
	case 0:
		rs.Note = NoteNoCorrective
		return rs
	case 1:
		rs.Note = NoteSingleCorrective
		return rs
	}

	dates := make([]int64, 0, tally.CM)
	for _, wo := range orders {
		if wo.IsCorrective() {
			dates = append(dates, wo.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	span := spanHours(dates[0], dates[len(dates)-1])
	if span <= 0 {
		rs.Note = NoteInvalidRange
		return rs
	}

	rs.TimeSpan = span
	rs.MTBF = span / float64(len(dates)-1)
	rs.FailureRate = float64(len(dates)) / (span / HoursPerYear)
	return rs
}

// FilterByEquipment returns the work orders of one equipment id.
// An empty id returns orders unchanged.
func FilterByEquipment(orders []models.WorkOrder, equipment string) []models.WorkOrder {
	if equipment == "" {
		return orders
	}
	filtered := make([]models.WorkOrder, 0)
	for _, wo := range orders {
		if wo.Equipment == equipment {
			filtered = append(filtered, wo)
		}
	}
	return filtered
}

// FilterStats is the reliability view of a user-selected subset. It reports
// false when the subset is empty.
func FilterStats(orders []models.WorkOrder) (models.ReliabilityStats, bool) {
	if len(orders) == 0 {
		return models.ReliabilityStats{}, false
	}
	return Reliability(orders), true
}
