package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// Source defines the interface for table sources: readers that turn an
// uploaded document into raw tables without knowing what the columns mean.
type Source interface {
	// Name returns the unique name of the source.
	Name() string
	// CanScan reports whether this source understands the document.
	// name is a file name or empty; data is the document prefix.
	CanScan(name string, data []byte) bool
	// Scan reads every table in the document.
	Scan(r io.Reader) ([]models.RawTable, error)
}

// sniffLimit bounds how much of a document CanScan looks at.
const sniffLimit = 64 * 1024

func sniff(data []byte) []byte {
	if len(data) > sniffLimit {
		return data[:sniffLimit]
	}
	return data
}

// JSONSource reads tables already captured as JSON, either a bare array of
// {headers, rows} objects or an object with a "tables" array.
type JSONSource struct{}

func NewJSONSource() *JSONSource {
	return &JSONSource{}
}

func (s *JSONSource) Name() string {
	return "json"
}

func (s *JSONSource) CanScan(name string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return true
	}
	trimmed := bytes.TrimSpace(sniff(data))
	return len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')
}

func (s *JSONSource) Scan(r io.Reader) ([]models.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty JSON document")
	}

	if trimmed[0] == '[' {
		var tables []models.RawTable
		if err := json.Unmarshal(trimmed, &tables); err != nil {
			return nil, fmt.Errorf("decoding table array: %w", err)
		}
		return tables, nil
	}

	var doc struct {
		Tables []models.RawTable `json:"tables"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decoding table document: %w", err)
	}
	return doc.Tables, nil
}
