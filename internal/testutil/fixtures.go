// fixtures.go - Shared work order tables for tests
package testutil

import (
	"fmt"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// PumpTable is the reference single-table scenario: two CM work orders ten
// days apart and one PM in between.
func PumpTable() models.RawTable {
	return models.RawTable{
		Headers: []string{"Equipment ID", "Date", "Cost", "Type"},
		Rows: [][]string{
			{"PUMP-1", "01/01/2023", "$100", "CM"},
			{"PUMP-1", "01/11/2023", "$50", "CM"},
			{"PUMP-1", "01/05/2023", "$20", "PM"},
		},
	}
}

// AssetTable uses different header wording and ISO dates.
func AssetTable() models.RawTable {
	return models.RawTable{
		Headers: []string{"WO #", "Asset Number", "Completion Date", "Actual Cost", "Maintenance Type"},
		Rows: [][]string{
			{"WO-10", "PUMP-1", "2023-02-01", "1,000.00", "cm"},
			{"WO-11", "FAN-7", "2023-02-03", "$75", "PdM"},
			{"WO-12", "FAN-7", "2023-02-10", "", "pm"},
			{"WO-13", "FAN-7", "not a date", "$5", "CM"},
		},
	}
}

// NavigationTable is a page layout table with no work order columns.
func NavigationTable() models.RawTable {
	return models.RawTable{
		Headers: []string{"Home", "Reports", "Settings"},
		Rows:    [][]string{{"a", "b", "c"}},
	}
}

// TableHTML renders tables as an HTML page the way a CMMS would show them.
func TableHTML(tables ...models.RawTable) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>Work Orders</title></head><body>\n")
	for i, t := range tables {
		fmt.Fprintf(&sb, "<h2>Table %d</h2>\n<table>\n<thead><tr>", i+1)
		for _, h := range t.Headers {
			fmt.Fprintf(&sb, "<th> %s </th>", h)
		}
		sb.WriteString("</tr></thead>\n<tbody>\n")
		for _, row := range t.Rows {
			sb.WriteString("<tr>")
			for _, cell := range row {
				fmt.Fprintf(&sb, "<td>%s</td>", cell)
			}
			sb.WriteString("</tr>\n")
		}
		sb.WriteString("</tbody>\n</table>\n")
	}
	sb.WriteString("</body></html>\n")
	return sb.String()
}
