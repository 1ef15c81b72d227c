// Package adapt reshapes classified raw tables into the common typed row
// schemas consumed by the linkage engine. Per-cell coercion failures always
// degrade to missing values, never errors: one bad row must not block the
// rest of the batch.
package adapt

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/formline/internal/domain/model"
	"github.com/okian/formline/pkg/metrics"
)

var digitsRe = regexp.MustCompile(`\d+`)

// raceNumber extracts a race number from a free-text race label via the
// first run of digits. Fails open to the missing sentinel; the row is then
// unjoinable but retained.
func raceNumber(s string) int {
	m := digitsRe.FindString(s)
	if m == "" {
		return model.RaceNumberMissing
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return model.RaceNumberMissing
	}
	return n
}

// toFloat coerces a cell to a float, rejecting NaN/Inf so they never leak
// downstream. Unparseable non-empty values are counted as coercion failures.
func toFloat(s, field string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		metrics.RecordCoercionFailure(field)
		return nil
	}
	return &v
}

// Date layouts tried in order. Exchange exports are day-first; tip scrapes
// are ISO-ish.
var (
	dateLayouts = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006/01/02",
		"02/01/2006",
		"02-01-2006",
	}
	dayFirstLayouts = []string{
		"02/01/2006",
		"02/01/2006 15:04",
		"02-01-2006",
		"02-01-2006 15:04:05",
		"2006-01-02",
		"2006-01-02 15:04:05",
	}
)

// toDate parses a date cell and normalizes it to midnight UTC. The zero time
// marks an unparseable date.
func toDate(s string, dayFirst bool) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	layouts := dateLayouts
	if dayFirst {
		layouts = dayFirstLayouts
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	metrics.RecordCoercionFailure("date")
	return time.Time{}
}

// headerIndex maps trimmed lower-cased header names to column positions.
// First occurrence wins when a header repeats.
func headerIndex(t model.RawTable) map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		name := strings.ToLower(strings.TrimSpace(c))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// lookup returns the column position of the first present name, or -1.
func lookup(idx map[string]int, names ...string) int {
	for _, name := range names {
		if i, ok := idx[name]; ok {
			return i
		}
	}
	return -1
}
