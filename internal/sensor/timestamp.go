package sensor

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// zonedLayouts carry their own offset; zonelessLayouts are interpreted in
// the caller's location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
	}
	zonelessLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// ParseTimestamp parses the ISO-8601-like timestamps served by the API.
// A nil loc means time.Local.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// AgeLabel renders how long before now the timestamp was taken, e.g.
// "5 minutes ago". Unparseable timestamps yield "unknown".
func AgeLabel(ts string, now time.Time, loc *time.Location) string {
	t, err := ParseTimestamp(ts, loc)
	if err != nil {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
