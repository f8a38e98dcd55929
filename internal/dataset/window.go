package dataset

import (
	"time"

	"github.com/luki/airguard/internal/sensor"
)

// Window selects which part of a record set is charted.
type Window string

const (
	Last50   Window = "last50"
	LastHour Window = "lastHour"
	All      Window = "all"
)

const (
	lastN    = 50
	hourSpan = 60 * time.Minute
)

// Windows lists the windows in UI cycling order.
var Windows = []Window{Last50, LastHour, All}

// Label returns a human-readable name.
func (w Window) Label() string {
	switch w {
	case Last50:
		return "last 50 records"
	case LastHour:
		return "last hour"
	case All:
		return "all records"
	default:
		return string(w)
	}
}

// Next cycles through Windows.
func (w Window) Next() Window {
	for i, ww := range Windows {
		if ww == w {
			return Windows[(i+1)%len(Windows)]
		}
	}
	return Last50
}

// Stamped is anything carrying a source timestamp string.
type Stamped interface {
	Stamp() string
}

// Apply returns the part of recs selected by w, evaluated at now. The
// result is always a fresh slice; recs is never modified. For LastHour
// records whose timestamp cannot be parsed are left out.
func Apply[T Stamped](recs []T, w Window, now time.Time, loc *time.Location) []T {
	switch w {
	case Last50:
		start := len(recs) - lastN
		if start < 0 {
			start = 0
		}
		out := make([]T, len(recs)-start)
		copy(out, recs[start:])
		return out
	case LastHour:
		cutoff := now.Add(-hourSpan)
		out := make([]T, 0, len(recs))
		for _, r := range recs {
			t, err := sensor.ParseTimestamp(r.Stamp(), loc)
			if err != nil || t.Before(cutoff) {
				continue
			}
			out = append(out, r)
		}
		return out
	default:
		out := make([]T, len(recs))
		copy(out, recs)
		return out
	}
}
