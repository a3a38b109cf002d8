package timezone

import (
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a YYYY-MM-DD calendar date in loc. Dates that do not
// exist (2026-02-30) are rejected.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !dateRe.MatchString(s) {
		return time.Time{}, &time.ParseError{
			Layout:  DateLayout,
			Value:   s,
			Message: ": expected YYYY-MM-DD",
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsBeforeToday compares calendar dates only; time of day is ignored.
func IsBeforeToday(date, now time.Time) bool {
	return StartOfDay(date.In(now.Location())).Before(StartOfDay(now))
}

// Provider timestamps usually arrive as airport-local wall time without an
// offset; those are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse time string",
	}
}

// UnixMilli returns the timestamp in Unix milliseconds, or 0 when s cannot
// be parsed.
func UnixMilli(s string) int64 {
	t, err := ParseTimestamp(s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
