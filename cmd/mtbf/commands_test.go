package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/models"
	"github.com/mtbf-analyzer/backend/internal/testutil"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCommandText(t *testing.T) {
	page := writeInput(t, "orders.html", testutil.TableHTML(testutil.NavigationTable(), testutil.PumpTable()))

	out, err := execute(t, "analyze", page, "--equipment", "PUMP-1")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	for _, want := range []string{
		"Work orders:",
		"10.0 days (240.0 hours)",
		"73.00 per year",
		"2 / 1 / 0",
		"EQUIPMENT PUMP-1",
		"1.  PUMP-1  3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	doc, _ := json.Marshal(map[string]interface{}{
		"tables": []models.RawTable{testutil.PumpTable(), testutil.AssetTable()},
	})
	input := writeInput(t, "tables.json", string(doc))

	out, err := execute(t, "analyze", input, "--format", "json", "--top", "1")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var rep report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if rep.Summary.TotalWorkOrders != 6 {
		t.Errorf("expected 6 work orders, got %d", rep.Summary.TotalWorkOrders)
	}
	if len(rep.ProcessedTables) != 2 {
		t.Errorf("expected 2 processed tables, got %d", len(rep.ProcessedTables))
	}
	if len(rep.TopByCost) != 1 || rep.TopByCost[0].Equipment != "PUMP-1" {
		t.Errorf("unexpected cost ranking: %+v", rep.TopByCost)
	}
	if rep.Equipment != nil {
		t.Errorf("expected no equipment section, got %+v", rep.Equipment)
	}
}

func TestAnalyzeCommandGzipCSV(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("Equipment ID,Date,Cost,Type\nPUMP-1,01/01/2023,$100,CM\nPUMP-1,01/11/2023,$50,CM\n"))
	zw.Close()
	input := writeInput(t, "orders.csv.gz", buf.String())

	out, err := execute(t, "analyze", input, "--format", "json")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var rep report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if rep.Summary.TotalWorkOrders != 2 {
		t.Errorf("expected 2 work orders, got %d", rep.Summary.TotalWorkOrders)
	}
	if rep.Summary.TotalCost != 150 {
		t.Errorf("expected total cost 150, got %v", rep.Summary.TotalCost)
	}
}

func TestAnalyzeCommandManualMapping(t *testing.T) {
	odd := models.RawTable{
		Headers: []string{"Tag", "When", "Kind"},
		Rows:    [][]string{{"B-2", "2024-03-01", "CM"}, {"B-2", "2024-03-03", "CM"}},
	}
	page := writeInput(t, "odd.html", testutil.TableHTML(odd))

	if _, err := execute(t, "analyze", page); !errors.Is(err, analysis.ErrNoWorkOrders) {
		t.Fatalf("expected ErrNoWorkOrders without a mapping, got %v", err)
	}

	out, err := execute(t, "analyze", page, "--table", "0", "--mapping", "equipment=0, date=1, type=2")
	if err != nil {
		t.Fatalf("analyze with mapping failed: %v", err)
	}
	if !strings.Contains(out, "2.0 days (48.0 hours)") {
		t.Errorf("expected 48 hour MTBF in output:\n%s", out)
	}
}

func TestAnalyzeCommandValidation(t *testing.T) {
	page := writeInput(t, "orders.html", testutil.TableHTML(testutil.PumpTable()))

	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantCode int
	}{
		{"bad format", []string{"analyze", page, "--format", "yaml"}, "invalid --format value", ExitInvalidArg},
		{"table without mapping", []string{"analyze", page, "--table", "1"}, "--mapping is required", ExitInvalidArg},
		{"table out of range", []string{"analyze", page, "--table", "4", "--mapping", "equipment=0,date=1"}, "invalid --table", ExitInvalidArg},
		{"unusable mapping", []string{"analyze", page, "--mapping", "cost=2"}, "requires equipment and date", ExitInvalidArg},
		{"unknown equipment", []string{"analyze", page, "--equipment", "FAN-9"}, "equipment not found", ExitNotFound},
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "nope.html")}, "failed to read input", ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
			if code := classifyError(err); code != tt.wantCode {
				t.Errorf("classifyError = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestChartCommand(t *testing.T) {
	page := writeInput(t, "orders.html", testutil.TableHTML(testutil.PumpTable(), testutil.AssetTable()))
	out := filepath.Join(t.TempDir(), "pareto.png")

	msg, err := execute(t, "chart", page, "--out", out)
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	if !strings.Contains(msg, "2 equipment") {
		t.Errorf("unexpected chart output: %q", msg)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG data")
	}

	if _, err := execute(t, "chart", page, "--out", filepath.Join(t.TempDir(), "pareto")); err == nil {
		t.Error("expected error for output without extension")
	}
}

func TestExportCommand(t *testing.T) {
	page := writeInput(t, "orders.html", testutil.TableHTML(testutil.PumpTable(), testutil.AssetTable()))
	dbPath := filepath.Join(t.TempDir(), "orders.duckdb")

	msg, err := execute(t, "export", page, "--db", dbPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(msg, "wrote 6 work orders for 2 equipment") {
		t.Errorf("unexpected export output: %q", msg)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not written: %v", err)
	}
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		in      string
		want    models.ColumnMapping
		wantErr bool
	}{
		{"equipment=0,date=1", models.ColumnMapping{"equipment": 0, "date": 1}, false},
		{" Equipment = 2 , DATE=0, cost=3, workType=1 ", models.ColumnMapping{"equipment": 2, "date": 0, "cost": 3, "workType": 1}, false},
		{"work_type=4", models.ColumnMapping{"workType": 4}, false},
		{"", nil, true},
		{"equipment", nil, true},
		{"equipment=x", nil, true},
		{"asset=1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMapping(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("parseMapping(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{analysis.ErrNoWorkOrders, ExitNoData},
		{fmt.Errorf("wrap: %w", os.ErrNotExist), ExitNotFound},
		{models.ErrColumnOutOfRange, ExitInvalidArg},
		{errors.New("boom"), ExitInternal},
	}
	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("classifyError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
