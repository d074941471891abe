package parser

import (
	"strings"
	"testing"

	"github.com/mtbf-analyzer/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanHTMLTables(t *testing.T) {
	pump := testutil.PumpTable()
	nav := testutil.NavigationTable()
	page := testutil.TableHTML(pump, nav)

	tables, err := ScanHTMLTables(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, pump.Headers, tables[0].Headers)
	assert.Equal(t, pump.Rows, tables[0].Rows)
	assert.Equal(t, nav.Headers, tables[1].Headers)
}

func TestScanHTMLTablesImplicitBody(t *testing.T) {
	page := `<table>
  <tr><th>Asset</th><th>Date</th><th>Cost</th></tr>
  <tr><td> M-1 </td><td><span>2023-01-02</span></td><td>$<b>10</b></td></tr>
</table>`

	tables, err := ScanHTMLTables(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, tables, 1)

	assert.Equal(t, []string{"Asset", "Date", "Cost"}, tables[0].Headers)
	// the header row lands in the implicit tbody with no td cells
	require.Len(t, tables[0].Rows, 2)
	assert.Empty(t, tables[0].Rows[0])
	assert.Equal(t, []string{"M-1", "2023-01-02", "$10"}, tables[0].Rows[1])
}

func TestScanHTMLTablesNoTables(t *testing.T) {
	tables, err := ScanHTMLTables(strings.NewReader("<p>nothing here</p>"))
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestRegistryFindSource(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		fileName string
		data     string
		want     string
		wantErr  bool
	}{
		{"html by extension", "page.HTML", "", "html", false},
		{"html by content", "", "<html><TABLE></TABLE></html>", "html", false},
		{"json by extension", "dump.json", "", "json", false},
		{"json array", "", ` [{"headers":["a"],"rows":[]}]`, "json", false},
		{"json wins over embedded markup", "", `{"tables":[],"note":"<table>"}`, "json", false},
		{"csv by extension", "export.csv", "", "csv", false},
		{"csv by content", "", "Asset;Date;Type\nP-1;2023-01-01;CM", "csv", false},
		{"unknown", "notes.txt", "hello", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.FindSource(tt.fileName, []byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name())
		})
	}
}

func TestRegistryScan(t *testing.T) {
	r := GetGlobalRegistry()

	tables, source, err := r.Scan("", []byte(`{"tables":[{"headers":["Equipment","Date","Type"],"rows":[["P-1","01/01/2023","CM"]]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "json", source)
	require.Len(t, tables, 1)
	assert.Equal(t, "P-1", tables[0].Rows[0][0])

	tables, source, err = r.Scan("page.html", []byte(testutil.TableHTML(testutil.PumpTable())))
	require.NoError(t, err)
	assert.Equal(t, "html", source)
	assert.Len(t, tables, 1)

	_, _, err = r.Scan("bad.json", []byte(`[{"headers": 5}]`))
	assert.Error(t, err)

	s, err := r.GetSourceByName("HTML")
	require.NoError(t, err)
	assert.Equal(t, "html", s.Name())
}
