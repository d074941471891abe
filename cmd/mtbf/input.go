package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/models"
	"github.com/mtbf-analyzer/backend/internal/parser"
	"github.com/mtbf-analyzer/backend/internal/upload"
)

// loadTables reads a document ("-" for stdin) and scans its tables with
// whichever source recognizes it.
func loadTables(path string, stdin io.Reader) ([]models.RawTable, error) {
	doc, err := upload.ReadFile(path, stdin, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	tables, source, err := parser.GetGlobalRegistry().Scan(doc.Name, doc.Data)
	if err != nil {
		return nil, err
	}
	slog.Debug("tables scanned", "source", source, "encoding", doc.Encoding, "tables", len(tables))
	return tables, nil
}

// analysisOptions builds analysis options, loading column keywords from a
// patterns file when one is given.
func analysisOptions(patternsFile string, minColumns int) (analysis.Options, error) {
	opts := analysis.DefaultOptions()
	if minColumns > 0 {
		opts.MinHeaderColumns = minColumns
	}
	if patternsFile != "" {
		patterns, err := parser.ParseColumnPatterns(patternsFile)
		if err != nil {
			return opts, err
		}
		opts.Patterns = patterns
	}
	return opts, nil
}

// parseMapping reads a mapping such as "equipment=1,date=2,workType=4".
func parseMapping(s string) (models.ColumnMapping, error) {
	mapping := make(models.ColumnMapping)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping entry %q: expected field=column", part)
		}

		field, err := parseField(strings.TrimSpace(key))
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid column for %s: %w", field, err)
		}
		mapping[field] = idx
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("mapping is required")
	}
	return mapping, nil
}

func parseField(s string) (models.Field, error) {
	for _, f := range models.Fields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	if strings.EqualFold(s, "type") || strings.EqualFold(s, "work_type") {
		return models.FieldWorkType, nil
	}
	return "", fmt.Errorf("unknown mapping field %q", s)
}
