package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mtbf-analyzer/backend/internal/models"
	"github.com/mtbf-analyzer/backend/internal/parser"
)

// ErrNoWorkOrders is returned by Analyze when no table on the page yielded
// work orders.
var ErrNoWorkOrders = errors.New("no work order tables found")

// DefaultMinHeaderColumns is the narrowest table considered a work order table.
const DefaultMinHeaderColumns = 3

// Options configures page analysis.
type Options struct {
	// MinHeaderColumns skips tables with fewer header cells.
	MinHeaderColumns int
	// Patterns are the header keywords used for column inference.
	Patterns models.ColumnPatterns
}

// DefaultOptions returns the default analysis options.
func DefaultOptions() Options {
	return Options{
		MinHeaderColumns: DefaultMinHeaderColumns,
		Patterns:         parser.DefaultColumnPatterns(),
	}
}

// Analyze infers the columns of every table on a page, extracts their work
// orders and combines them into one result.
//
// Tables that are too narrow, whose equipment or date column cannot be
// inferred, or that yield no work orders are skipped. Equipment seen in
// several tables is merged. MTBF figures are computed from the merged
// corrective work orders. When nothing is found ErrNoWorkOrders is returned.
func Analyze(tables []models.RawTable, opts Options) (result *models.AnalysisResult, err error) {
	defer recoverAnalysis(&err)

	merged := models.NewAnalysisResult()
	merged.ProcessedTables = make([]models.ProcessedTable, 0)
	var counters Counters

	for i, table := range tables {
		if len(table.Headers) < opts.MinHeaderColumns {
			continue
		}
		mapping := parser.MapColumnsWith(table.Headers, opts.Patterns)
		if !mapping.Usable() {
			continue
		}
		orders, skipped := parser.ExtractRows(table, mapping)
		if len(orders) == 0 {
			continue
		}

		merged.WorkOrders = append(merged.WorkOrders, orders...)
		MergeEquipmentStats(merged.EquipmentStats, Aggregate(orders))
		counters = counters.Add(Tally(orders))
		merged.ProcessedTables = append(merged.ProcessedTables, models.ProcessedTable{
			Index:          i,
			Mapping:        mapping,
			WorkOrderCount: len(orders),
			SkippedRows:    len(skipped),
		})
	}

	if len(merged.WorkOrders) == 0 {
		return nil, ErrNoWorkOrders
	}

	finish(merged, counters)
	merged.Summary.ProcessedTables = len(merged.ProcessedTables)
	return merged, nil
}

// AnalyzeOne analyzes a single table under a caller-supplied mapping, such
// as one corrected by a user. The mapping must name the equipment and date
// columns and stay within the table headers.
func AnalyzeOne(table models.RawTable, mapping models.ColumnMapping) (result *models.AnalysisResult, err error) {
	defer recoverAnalysis(&err)

	if err := mapping.Validate(len(table.Headers)); err != nil {
		return nil, err
	}

	orders := parser.Extract(table, mapping)
	result = models.NewAnalysisResult()
	result.WorkOrders = orders
	result.EquipmentStats = Aggregate(orders)
	finish(result, Tally(orders))
	return result, nil
}

// finish sorts work orders by date, derives equipment MTBF and builds the summary.
func finish(r *models.AnalysisResult, c Counters) {
	sort.SliceStable(r.WorkOrders, func(i, j int) bool {
		return r.WorkOrders[i].Date < r.WorkOrders[j].Date
	})
	ComputeEquipmentMTBF(r.EquipmentStats, r.WorkOrders)
	r.Summary = summarize(r.WorkOrders, c)
}

func summarize(orders []models.WorkOrder, c Counters) models.SummaryStats {
	rel := Reliability(orders)
	s := models.SummaryStats{
		TotalWorkOrders: len(orders),
		TotalCost:       c.TotalCost,
		MTBF:            rel.MTBF,
		FailureRate:     rel.FailureRate,
		CMCount:         c.CM,
		PMCount:         c.PM,
		PDMCount:        c.PDM,
		TimeSpan:        rel.TimeSpan,
		IsPMOnly:        rel.IsPMOnly,
	}
	if len(orders) > 0 {
		s.AverageCost = c.TotalCost / float64(len(orders))
	}
	return s
}

// recoverAnalysis turns a panic inside the analysis into an error so callers
// get a failure result instead of a crash.
func recoverAnalysis(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("analysis failed: %v", r)
	}
}
