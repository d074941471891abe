package upload

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxSize bounds a decoded document when the caller passes no limit.
const DefaultMaxSize int64 = 64 << 20

// ErrTooLarge is returned when a document exceeds the size limit after
// decompression.
var ErrTooLarge = errors.New("document exceeds size limit")

// Document is an uploaded work order export decoded to plain bytes.
type Document struct {
	Name           string `json:"name"`
	Size           int64  `json:"size"`
	CompressedSize int64  `json:"compressedSize,omitempty"`
	Encoding       string `json:"encoding"`
	Data           []byte `json:"-"`
}

// countingReader tracks how many bytes were read from the wire.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Read decodes a document, transparently inflating gzip input detected by
// its magic bytes. A ".gz" suffix is dropped from the name so source
// detection sees the inner extension.
func Read(name string, r io.Reader, limit int64) (*Document, error) {
	if limit <= 0 {
		limit = DefaultMaxSize
	}

	wire := &countingReader{r: r}
	br := bufio.NewReader(wire)
	doc := &Document{Encoding: "identity"}
	if name != "" {
		doc.Name = strings.TrimSuffix(filepath.Base(name), ".gz")
	}

	var body io.Reader = br
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		body = gz
		doc.Encoding = "gzip"
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s document: %w", doc.Encoding, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	doc.Data = data
	doc.Size = int64(len(data))
	if doc.Encoding == "gzip" {
		doc.CompressedSize = wire.n
	}
	return doc, nil
}

// ReadFile reads a document from disk, or from stdin when path is "-".
func ReadFile(path string, stdin io.Reader, limit int64) (*Document, error) {
	if path == "-" {
		return Read("", stdin, limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(path, f, limit)
}
