package parser

import (
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// DefaultColumnPatterns returns the built-in header keywords, most specific first.
func DefaultColumnPatterns() models.ColumnPatterns {
	return models.ColumnPatterns{
		Equipment: []string{"equipment", "equipment id", "equipment number", "asset", "asset id", "asset number", "machine", "machine id"},
		Date:      []string{"reported date", "date", "work order date", "completion date", "created date", "start date"},
		Cost:      []string{"cost", "total cost", "labor cost", "material cost", "work order cost", "actual cost"},
		WorkType:  []string{"work type", "type", "maintenance type", "wo type", "order type", "category"},
	}
}

// MapColumns infers the column mapping of a table from its headers using
// the default keywords.
func MapColumns(headers []string) models.ColumnMapping {
	return MapColumnsWith(headers, DefaultColumnPatterns())
}

// MapColumnsWith infers the column mapping using the given keywords.
//
// For each field the keywords are tried in order; the first keyword that is
// a substring of any header wins, and the leftmost such header is used.
// Fields are resolved independently, so two fields may share a column.
func MapColumnsWith(headers []string, patterns models.ColumnPatterns) models.ColumnMapping {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := make(models.ColumnMapping)
	for _, field := range models.Fields {
		if idx, ok := findColumn(lower, patterns.For(field)); ok {
			mapping[field] = idx
		}
	}
	return mapping
}

func findColumn(headers []string, keywords []string) (int, bool) {
	for _, kw := range keywords {
		for i, h := range headers {
			if strings.Contains(h, kw) {
				return i, true
			}
		}
	}
	return -1, false
}
