package ticktick

import (
	"fmt"
	"time"
)

// TimeFormat is the datetime layout the TickTick API expects:
// 'YYYY-MM-DDTHH:mm:ss.fff+ZZZZ'.
const TimeFormat = "2006-01-02T15:04:05.000-0700"

// isoLayouts are the ISO 8601 layouts accepted as input, tried in order.
// Layouts without a zone designator are interpreted in the caller's
// timezone (see FormatDateTime).
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatDateTime converts an ISO 8601 date/time string to the TickTick API
// format. If the input carries no timezone offset, it is interpreted in the
// IANA zone named by tz.
func FormatDateTime(isoString, tz string) (string, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, isoString); err == nil {
			return t.Format(TimeFormat), nil
		}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, isoString, loc); err == nil {
			return t.Format(TimeFormat), nil
		}
	}

	return "", fmt.Errorf("invalid datetime format %q: expected ISO 8601", isoString)
}

// ParseTime parses a task date field. The API writes TimeFormat but tasks
// created through other clients may carry RFC 3339 timestamps or bare dates.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}
	layouts := append(append([]string{}, isoLayouts...), naiveLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}

// SameDay reports whether two instants fall on the same calendar day in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
