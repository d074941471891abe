package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// Registry holds all available table sources and provides auto-detection.
type Registry struct {
	sources []Source
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry returns a registry with the JSON source ahead of the HTML one,
// since a JSON table dump may well contain the string "<table". CSV sniffing
// is the loosest check and goes last.
func NewRegistry() *Registry {
	return &Registry{
		sources: []Source{
			NewJSONSource(),
			NewHTMLSource(),
			NewCSVSource(),
		},
	}
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register adds a new source to the registry.
func (r *Registry) Register(s Source) {
	r.sources = append(r.sources, s)
}

// FindSource detects the source for a document.
func (r *Registry) FindSource(name string, data []byte) (Source, error) {
	for _, s := range r.sources {
		if s.CanScan(name, data) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no suitable table source for %q", name)
}

// GetSourceByName returns a source by its name.
func (r *Registry) GetSourceByName(name string) (Source, error) {
	name = strings.ToLower(name)
	for _, s := range r.sources {
		if strings.ToLower(s.Name()) == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("source not found: %s", name)
}

// Scan detects the source for data and reads its tables.
func (r *Registry) Scan(name string, data []byte) ([]models.RawTable, string, error) {
	s, err := r.FindSource(name, data)
	if err != nil {
		return nil, "", err
	}
	tables, err := s.Scan(bytes.NewReader(data))
	if err != nil {
		return nil, s.Name(), fmt.Errorf("%s source: %w", s.Name(), err)
	}
	return tables, s.Name(), nil
}
