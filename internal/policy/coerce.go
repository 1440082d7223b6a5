package policy

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts lists the accepted date formats, tried in order.  Payloads
// come from JSON so dates arrive as strings: full RFC3339, a bare datetime,
// or a date-only value.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate coerces a raw payload string into a UTC time.  The field name is
// used in the violation when the value does not parse.
func ParseDate(field, raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, violation("invalid date", field)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, violation("invalid date", field)
}

// ParseAmount coerces a raw monetary string into integer cents.  A comma
// decimal separator is tolerated ("149,90" equals "149.90").  Values must be
// finite and non-negative.
func ParseAmount(field, raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, violation("invalid amount", field)
	}
	// Tolerate a comma decimal separator, but never both separators at once.
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			return 0, violation("invalid amount", field)
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, violation("invalid amount", field)
	}
	if f < 0 {
		return 0, violation("must not be negative", field)
	}
	return int64(math.Round(f * 100)), nil
}
