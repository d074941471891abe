package upload

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadPlain(t *testing.T) {
	doc, err := Read("exports/orders.html", strings.NewReader("<table></table>"), 0)
	require.NoError(t, err)
	assert.Equal(t, "orders.html", doc.Name)
	assert.Equal(t, "identity", doc.Encoding)
	assert.Equal(t, int64(15), doc.Size)
	assert.Zero(t, doc.CompressedSize)
	assert.Equal(t, "<table></table>", string(doc.Data))
}

func TestReadGzip(t *testing.T) {
	content := strings.Repeat("PUMP-1,01/01/2023,CM\n", 100)
	compressed := gzipped(t, content)

	doc, err := Read("orders.csv.gz", bytes.NewReader(compressed), 0)
	require.NoError(t, err)
	assert.Equal(t, "orders.csv", doc.Name)
	assert.Equal(t, "gzip", doc.Encoding)
	assert.Equal(t, content, string(doc.Data))
	assert.Equal(t, int64(len(content)), doc.Size)
	assert.Equal(t, int64(len(compressed)), doc.CompressedSize)
}

func TestReadLimit(t *testing.T) {
	_, err := Read("a.html", strings.NewReader("0123456789"), 5)
	assert.True(t, errors.Is(err, ErrTooLarge), "got %v", err)

	// the limit applies after decompression
	_, err = Read("a.gz", bytes.NewReader(gzipped(t, strings.Repeat("x", 100))), 50)
	assert.True(t, errors.Is(err, ErrTooLarge), "got %v", err)

	doc, err := Read("a.html", strings.NewReader("01234"), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), doc.Size)
}

func TestReadCorruptGzip(t *testing.T) {
	_, err := Read("bad.gz", bytes.NewReader([]byte{0x1f, 0x8b, 0x00}), 0)
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tables":[]}`), 0644))

	doc, err := ReadFile(path, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "orders.json", doc.Name)

	doc, err = ReadFile("-", strings.NewReader("a,b,c"), 0)
	require.NoError(t, err)
	assert.Empty(t, doc.Name)
	assert.Equal(t, "a,b,c", string(doc.Data))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.html"), nil, 0)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
