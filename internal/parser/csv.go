package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// CSVSource reads a CMMS export saved as CSV (or tab separated) as a
// single table: the first record is the header row.
type CSVSource struct{}

func NewCSVSource() *CSVSource {
	return &CSVSource{}
}

func (s *CSVSource) Name() string {
	return "csv"
}

func (s *CSVSource) CanScan(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return true
	}

	first := firstLine(sniff(data))
	if first == "" || strings.ContainsAny(first[:1], "<[{") {
		return false
	}
	return strings.Count(first, ",") >= 2 || strings.Count(first, "\t") >= 2 || strings.Count(first, ";") >= 2
}

func (s *CSVSource) Scan(r io.Reader) ([]models.RawTable, error) {
	br := bufio.NewReaderSize(r, sniffLimit)
	head, _ := br.Peek(sniffLimit)

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(firstLine(head))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var table models.RawTable
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if table.Headers == nil {
			table.Headers = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	if table.Headers == nil {
		return nil, nil
	}
	if table.Rows == nil {
		table.Rows = [][]string{}
	}
	return []models.RawTable{table}, nil
}

func firstLine(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if trimmed := strings.TrimSpace(string(line)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// detectDelimiter picks tab or semicolon when the header row uses them
// more than commas.
func detectDelimiter(header string) rune {
	best, count := ',', strings.Count(header, ",")
	for _, d := range []rune{'\t', ';'} {
		if n := strings.Count(header, string(d)); n > count {
			best, count = d, n
		}
	}
	return best
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
