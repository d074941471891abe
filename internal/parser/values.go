package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

var (
	// ErrEmptyDate is returned for an empty date cell.
	ErrEmptyDate = errors.New("empty date")
	// ErrInvalidDate is returned when no known format and no free-form parse matched.
	ErrInvalidDate = errors.New("invalid date")
)

// dateFormat is one of the fixed numeric date patterns, tried in order.
type dateFormat struct {
	name           string
	re             *regexp.Regexp
	year, mon, day int // submatch positions
}

var dateFormats = []dateFormat{
	{name: "MM/DD/YYYY", re: regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), year: 3, mon: 1, day: 2},
	{name: "YYYY-MM-DD", re: regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), year: 1, mon: 2, day: 3},
	{name: "MM-DD-YYYY", re: regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`), year: 3, mon: 1, day: 2},
}

// ParseDate converts a date cell to midnight UTC of that calendar day.
// The first matching fixed format wins even when its fields are out of
// range; time.Date then normalizes them (month 13 rolls into next year).
// Anything else goes through a free-form parse.
func ParseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, ErrEmptyDate
	}

	for _, f := range dateFormats {
		m := f.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[f.year])
		month, _ := strconv.Atoi(m[f.mon])
		day, _ := strconv.Atoi(m[f.day])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	}

	t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// costPrefix matches the leading decimal number of a cost cell.
var costPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

var costStripper = strings.NewReplacer("$", "", ",", "")

// ParseCost converts a cost cell such as "$1,234.50" to a number.
// Trailing text after the number is ignored; empty, non-numeric and
// negative cells yield 0.
func ParseCost(raw string) float64 {
	if raw == "" {
		return 0
	}

	s := strings.TrimLeftFunc(costStripper.Replace(raw), unicode.IsSpace)
	num := costPrefix.FindString(s)
	if num == "" {
		return 0
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
