package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseColumnPatterns loads header keywords from a YAML file:
//
//	equipment: ["tag", "equipment"]
//	date: ["closed on", "date"]
//	cost: ["cost"]
//	work_type: ["type"]
//
// Fields left out of the file keep the default keywords.
func ParseColumnPatterns(filePath string) (models.ColumnPatterns, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return models.ColumnPatterns{}, err
	}
	defer file.Close()

	return ParseColumnPatternsFromReader(file)
}

// ParseColumnPatternsFromReader loads header keywords from an io.Reader.
func ParseColumnPatternsFromReader(r io.Reader) (models.ColumnPatterns, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.ColumnPatterns{}, err
	}

	var loaded models.ColumnPatterns
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return models.ColumnPatterns{}, err
	}

	defaults := DefaultColumnPatterns()
	patterns := models.ColumnPatterns{}
	for _, f := range models.Fields {
		keywords := loaded.For(f)
		if len(keywords) == 0 {
			keywords = defaults.For(f)
		}
		normalized, err := normalizeKeywords(f, keywords)
		if err != nil {
			return models.ColumnPatterns{}, err
		}
		setPatterns(&patterns, f, normalized)
	}

	return patterns, nil
}

// normalizeKeywords lowercases and trims keywords. An empty keyword would
// match every header, so it is rejected.
func normalizeKeywords(f models.Field, keywords []string) ([]string, error) {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return nil, fmt.Errorf("empty keyword in %s patterns", f)
		}
		out = append(out, kw)
	}
	return out, nil
}

func setPatterns(p *models.ColumnPatterns, f models.Field, keywords []string) {
	switch f {
	case models.FieldEquipment:
		p.Equipment = keywords
	case models.FieldDate:
		p.Date = keywords
	case models.FieldCost:
		p.Cost = keywords
	case models.FieldWorkType:
		p.WorkType = keywords
	}
}
