package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnusableMapping is returned when a mapping lacks the equipment or date column.
	ErrUnusableMapping = errors.New("column mapping requires equipment and date")
	// ErrColumnOutOfRange is returned when a mapping points past the table headers.
	ErrColumnOutOfRange = errors.New("column index out of range")
)

// RawTable is the text content of one HTML table: header cells and body rows.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Field names a semantic column of a work order table.
type Field string

const (
	FieldEquipment Field = "equipment"
	FieldDate      Field = "date"
	FieldCost      Field = "cost"
	FieldWorkType  Field = "workType"
)

// Fields lists every semantic field in mapping order.
var Fields = []Field{FieldEquipment, FieldDate, FieldCost, FieldWorkType}

// ColumnMapping maps a semantic field to a zero-based column index.
// Absent fields are simply missing from the map.
type ColumnMapping map[Field]int

// Index returns the column assigned to f.
func (m ColumnMapping) Index(f Field) (int, bool) {
	idx, ok := m[f]
	return idx, ok
}

// Usable reports whether both the equipment and date columns are present.
func (m ColumnMapping) Usable() bool {
	_, hasEquipment := m[FieldEquipment]
	_, hasDate := m[FieldDate]
	return hasEquipment && hasDate
}

// MaxIndex returns the largest column index referenced, or -1 for an empty mapping.
func (m ColumnMapping) MaxIndex() int {
	max := -1
	for _, idx := range m {
		if idx > max {
			max = idx
		}
	}
	return max
}

// Validate checks the mapping against a table with the given number of header columns.
// A table without headers only gets the usability and sign checks.
func (m ColumnMapping) Validate(columns int) error {
	if !m.Usable() {
		return ErrUnusableMapping
	}
	for _, f := range Fields {
		idx, ok := m[f]
		if !ok {
			continue
		}
		if idx < 0 || (columns > 0 && idx >= columns) {
			return fmt.Errorf("%w: %s=%d (table has %d columns)", ErrColumnOutOfRange, f, idx, columns)
		}
	}
	return nil
}

// ColumnPatterns holds the lowercase header keywords for each field, most specific first.
type ColumnPatterns struct {
	Equipment []string `json:"equipment" yaml:"equipment"`
	Date      []string `json:"date" yaml:"date"`
	Cost      []string `json:"cost" yaml:"cost"`
	WorkType  []string `json:"workType" yaml:"work_type"`
}

// For returns the keyword list for a field.
func (p ColumnPatterns) For(f Field) []string {
	switch f {
	case FieldEquipment:
		return p.Equipment
	case FieldDate:
		return p.Date
	case FieldCost:
		return p.Cost
	case FieldWorkType:
		return p.WorkType
	}
	return nil
}
