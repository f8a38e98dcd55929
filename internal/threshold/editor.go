// Package threshold implements the per-(sensor, room) threshold range
// editor: a value-type state machine driven by load results, slider drags,
// commit results and notice expiry, plus the bubbletea commands that talk
// to the API on its behalf.
package threshold

import (
	"errors"
	"math"
	"time"

	"github.com/luki/airguard/internal/api"
	"github.com/luki/airguard/internal/sensor"
)

// State is the lifecycle state of an Editor.
type State int

const (
	Uninitialized State = iota
	Loaded
	Dragging
	Committing
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loaded:
		return "loaded"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle is one end of the range slider.
type Handle int

const (
	MinHandle Handle = iota
	MaxHandle
)

const (
	// NoticeTTL is how long the success notice stays visible.
	NoticeTTL = 3 * time.Second

	SuccessNotice = "Range updated successfully!"
)

// Editor holds the editing state of one threshold range. All methods
// return a new Editor; the zero value is not usable, call New.
type Editor struct {
	sensor sensor.Kind
	room   sensor.Room

	state     State
	value     sensor.Range // what the slider shows
	committed sensor.Range // last range confirmed by the API

	errText     string
	notice      string
	noticeUntil time.Time
}

// New returns an uninitialized editor for the given sensor and room.
func New(kind sensor.Kind, room sensor.Room) Editor {
	return Editor{sensor: kind, room: room}
}

func (e Editor) Sensor() sensor.Kind { return e.sensor }
func (e Editor) Room() sensor.Room   { return e.room }
func (e Editor) State() State        { return e.state }

// Err returns the message to display for a failed load or commit.
func (e Editor) Err() string { return e.errText }

// Value returns the range the slider shows. ok is false while no range
// is available (not yet loaded, or failed).
func (e Editor) Value() (sensor.Range, bool) {
	switch e.state {
	case Loaded, Dragging, Committing:
		return e.value, true
	default:
		return sensor.Range{}, false
	}
}

// Confirmed returns the last range confirmed by the API.
func (e Editor) Confirmed() sensor.Range { return e.committed }

// Notice returns the success notice while it is still visible at now.
func (e Editor) Notice(now time.Time) string {
	if e.notice == "" || !now.Before(e.noticeUntil) {
		return ""
	}
	return e.notice
}

// Loaded applies a fetched range. Only an editor awaiting a load accepts it.
func (e Editor) Loaded(r sensor.Range) Editor {
	if e.state != Uninitialized {
		return e
	}
	e.state = Loaded
	e.value = r
	e.committed = r
	e.errText = ""
	return e
}

// LoadFailed records a failed range fetch.
func (e Editor) LoadFailed(err error) Editor {
	if e.state != Uninitialized {
		return e
	}
	e.state = Failed
	e.errText = "Failed to fetch range: " + err.Error()
	if errors.Is(err, api.ErrUnexpectedFormat) {
		e.errText = api.Describe(err)
	}
	return e
}

// Drag moves handle h to v. The value is clamped to the sensor's bounds
// and never crosses the other handle. Only the local value changes.
func (e Editor) Drag(h Handle, v float64) Editor {
	if e.state != Loaded && e.state != Dragging {
		return e
	}
	b := e.sensor.Bounds()
	v = math.Max(b.Min, math.Min(b.Max, v))
	switch h {
	case MinHandle:
		e.value.Min = math.Min(v, e.value.Max)
	case MaxHandle:
		e.value.Max = math.Max(v, e.value.Min)
	}
	e.state = Dragging
	return e
}

// Nudge moves handle h by delta.
func (e Editor) Nudge(h Handle, delta float64) Editor {
	cur := e.value.Min
	if h == MaxHandle {
		cur = e.value.Max
	}
	return e.Drag(h, cur+delta)
}

// Release ends a drag gesture. It returns the range to write and true
// exactly once per gesture; in any other state nothing is written.
func (e Editor) Release() (Editor, sensor.ThresholdRange, bool) {
	if e.state != Dragging {
		return e, sensor.ThresholdRange{}, false
	}
	e.state = Committing
	return e, sensor.ThresholdRange{Sensor: e.sensor, Room: e.room, Range: e.value}, true
}

// Committed applies the result of a write issued by Release. On success
// the success notice is shown until at+NoticeTTL.
func (e Editor) Committed(err error, at time.Time) Editor {
	if e.state != Committing {
		return e
	}
	if err != nil {
		e.state = Failed
		e.errText = "Failed to update range: " + api.Describe(err)
		e.notice = ""
		return e
	}
	e.state = Loaded
	e.committed = e.value
	e.notice = SuccessNotice
	e.noticeUntil = at.Add(NoticeTTL)
	return e
}

// ExpireNotice drops the notice once it is no longer visible at now.
func (e Editor) ExpireNotice(now time.Time) Editor {
	if e.Notice(now) == "" {
		e.notice = ""
	}
	return e
}

// Reload resets a failed editor so a new fetch can be applied.
func (e Editor) Reload() Editor {
	if e.state != Failed {
		return e
	}
	return New(e.sensor, e.room)
}
