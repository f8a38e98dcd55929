// Package dataset turns the flat reading list into the record sets the
// screens chart: a single room's records, or readings of every room
// aligned on their timestamps.
package dataset

import (
	"time"

	"github.com/luki/airguard/internal/sensor"
)

// Record is a reading annotated with its relative age.
type Record struct {
	sensor.Reading
	Age string
}

// Aligned is one timestamp row of the multi-room overview. Values is
// indexed by Room.Index(); nil means the room has no reading at that
// timestamp.
type Aligned struct {
	Timestamp string
	Age       string
	Values    [sensor.RoomCount]*float64
}

// Stamp returns the row's raw timestamp.
func (a Aligned) Stamp() string {
	return a.Timestamp
}

// Value returns the value for room and whether it is present.
func (a Aligned) Value(room sensor.Room) (float64, bool) {
	if !room.Valid() || a.Values[room.Index()] == nil {
		return 0, false
	}
	return *a.Values[room.Index()], true
}

// ForRoom returns the readings of one room in source order. Ages are
// computed against now, so callers re-run it on every render.
func ForRoom(readings []sensor.Reading, room sensor.Room, now time.Time, loc *time.Location) []Record {
	out := make([]Record, 0, len(readings)/sensor.RoomCount+1)
	for _, r := range readings {
		if r.Room != room {
			continue
		}
		out = append(out, Record{Reading: r, Age: sensor.AgeLabel(r.Timestamp, now, loc)})
	}
	return out
}

// Align pivots readings into one row per distinct timestamp string, in
// first-seen order. Matching is exact string equality. When a room has
// two readings with the same timestamp the later one wins.
func Align(readings []sensor.Reading, kind sensor.Kind, now time.Time, loc *time.Location) []Aligned {
	index := make(map[string]int)
	var rows []Aligned
	for _, r := range readings {
		if !r.Room.Valid() {
			continue
		}
		i, ok := index[r.Timestamp]
		if !ok {
			i = len(rows)
			index[r.Timestamp] = i
			rows = append(rows, Aligned{
				Timestamp: r.Timestamp,
				Age:       sensor.AgeLabel(r.Timestamp, now, loc),
			})
		}
		v := r.Value(kind)
		rows[i].Values[r.Room.Index()] = &v
	}
	return rows
}
