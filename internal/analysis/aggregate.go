// Package analysis derives equipment statistics and reliability metrics
// from extracted work orders.
package analysis

import (
	"sort"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// Counters are the per-category tallies of a batch of work orders.
type Counters struct {
	CM        int
	PM        int
	PDM       int
	TotalCost float64
}

// Add returns the sum of two tallies.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		CM:        c.CM + o.CM,
		PM:        c.PM + o.PM,
		PDM:       c.PDM + o.PDM,
		TotalCost: c.TotalCost + o.TotalCost,
	}
}

// Tally counts work orders per category and sums their cost.
func Tally(orders []models.WorkOrder) Counters {
	var c Counters
	for _, wo := range orders {
		switch wo.Class() {
		case models.WorkClassCM:
			c.CM++
		case models.WorkClassPM:
			c.PM++
		case models.WorkClassPDM:
			c.PDM++
		}
		c.TotalCost += wo.Cost
	}
	return c
}

// Aggregate folds work orders into per-equipment counts, costs and date
// ranges. MTBF is left at zero; see ComputeEquipmentMTBF.
func Aggregate(orders []models.WorkOrder) map[string]*models.EquipmentStats {
	stats := make(map[string]*models.EquipmentStats)
	for _, wo := range orders {
		s, ok := stats[wo.Equipment]
		if !ok {
			s = &models.EquipmentStats{FirstDate: wo.Date, LastDate: wo.Date}
			stats[wo.Equipment] = s
		}
		s.Count++
		s.TotalCost += wo.Cost
		s.FirstDate = min(s.FirstDate, wo.Date)
		s.LastDate = max(s.LastDate, wo.Date)
	}
	return stats
}

// MergeEquipmentStats adds src into dst, summing counts and costs and
// widening date ranges for ids present in both.
func MergeEquipmentStats(dst, src map[string]*models.EquipmentStats) {
	for id, s := range src {
		d, ok := dst[id]
		if !ok {
			d = &models.EquipmentStats{FirstDate: s.FirstDate, LastDate: s.LastDate}
			dst[id] = d
		}
		d.Count += s.Count
		d.TotalCost += s.TotalCost
		d.FirstDate = min(d.FirstDate, s.FirstDate)
		d.LastDate = max(d.LastDate, s.LastDate)
	}
}

// ComputeEquipmentMTBF sets the MTBF of every equipment in stats from its
// corrective work orders in orders: the CM span in hours divided by the
// number of CM intervals, or 0 with fewer than two CM work orders.
func ComputeEquipmentMTBF(stats map[string]*models.EquipmentStats, orders []models.WorkOrder) {
	cmDates := make(map[string][]int64)
	for _, wo := range orders {
		if wo.IsCorrective() {
			cmDates[wo.Equipment] = append(cmDates[wo.Equipment], wo.Date)
		}
	}

	for id, s := range stats {
		s.MTBF = intervalMTBF(cmDates[id])
	}
}

// intervalMTBF is the mean interval in hours between the given event times.
func intervalMTBF(dates []int64) float64 {
	if len(dates) < 2 {
		return 0
	}
	sorted := append([]int64(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return spanHours(sorted[0], sorted[len(sorted)-1]) / float64(len(sorted)-1)
}
