package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColumnPatterns(t *testing.T) {
	content := `
equipment:
  - "Tag "
  - "Equipment"
date:
  - "Closed On"
work_type:
  - "class"
`
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "patterns.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	patterns, err := ParseColumnPatterns(path)
	if err != nil {
		t.Fatalf("ParseColumnPatterns failed: %v", err)
	}

	if len(patterns.Equipment) != 2 || patterns.Equipment[0] != "tag" {
		t.Errorf("expected normalized equipment keywords, got %q", patterns.Equipment)
	}
	if len(patterns.Date) != 1 || patterns.Date[0] != "closed on" {
		t.Errorf("expected date keywords [closed on], got %q", patterns.Date)
	}
	if len(patterns.WorkType) != 1 || patterns.WorkType[0] != "class" {
		t.Errorf("expected work type keywords [class], got %q", patterns.WorkType)
	}

	// cost was not in the file and keeps the defaults
	defaults := DefaultColumnPatterns()
	if len(patterns.Cost) != len(defaults.Cost) || patterns.Cost[0] != "cost" {
		t.Errorf("expected default cost keywords, got %q", patterns.Cost)
	}

	mapping := MapColumnsWith([]string{"Tag", "Closed On", "Class", "Cost"}, patterns)
	if mapping["equipment"] != 0 || mapping["date"] != 1 || mapping["workType"] != 2 || mapping["cost"] != 3 {
		t.Errorf("unexpected mapping with custom patterns: %v", mapping)
	}
}

func TestParseColumnPatternsFromReader(t *testing.T) {
	_, err := ParseColumnPatternsFromReader(strings.NewReader("date: [\"  \"]\n"))
	if err == nil {
		t.Fatal("expected error for blank keyword")
	}

	patterns, err := ParseColumnPatternsFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document should yield defaults: %v", err)
	}
	if len(patterns.Equipment) != len(DefaultColumnPatterns().Equipment) {
		t.Errorf("expected default equipment keywords, got %q", patterns.Equipment)
	}

	if _, err := ParseColumnPatternsFromReader(strings.NewReader("equipment: {")); err == nil {
		t.Error("expected YAML syntax error")
	}
}
