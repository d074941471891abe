package parser

import (
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// UnknownEquipment is used when a row has no equipment id.
const UnknownEquipment = "Unknown"

// Extract converts the body rows of a table into work orders.
// Short rows and rows without a parseable date are dropped.
func Extract(table models.RawTable, mapping models.ColumnMapping) []models.WorkOrder {
	orders, _ := ExtractRows(table, mapping)
	return orders
}

// ExtractRows is Extract that also reports which rows were dropped and why.
func ExtractRows(table models.RawTable, mapping models.ColumnMapping) ([]models.WorkOrder, []models.SkippedRow) {
	orders := make([]models.WorkOrder, 0, len(table.Rows))
	var skipped []models.SkippedRow

	// A row as long as the largest index still passes; the missing cell reads as empty.
	maxIndex := mapping.MaxIndex()

	for i, row := range table.Rows {
		if len(row) < maxIndex {
			skipped = append(skipped, models.SkippedRow{Row: i, Reason: "row shorter than mapped columns"})
			continue
		}

		equipment := cellValue(row, mapping, models.FieldEquipment)
		if equipment == "" {
			equipment = UnknownEquipment
		}
		dateRaw := cellValue(row, mapping, models.FieldDate)
		costRaw := cellValue(row, mapping, models.FieldCost)
		if costRaw == "" {
			costRaw = "0"
		}
		workType := strings.ToUpper(cellValue(row, mapping, models.FieldWorkType))

		date, err := ParseDate(dateRaw)
		if err != nil {
			skipped = append(skipped, models.SkippedRow{Row: i, Reason: err.Error()})
			continue
		}

		orders = append(orders, models.WorkOrder{
			Equipment: equipment,
			Date:      date.UnixMilli(),
			Cost:      ParseCost(costRaw),
			WorkType:  workType,
		})
	}

	return orders, skipped
}

// cellValue returns the cell mapped to f, or "" when unmapped or out of range.
func cellValue(row []string, mapping models.ColumnMapping, f models.Field) string {
	idx, ok := mapping.Index(f)
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
