// Package sensor holds the vocabulary shared by every part of the
// dashboard: the monitored rooms, the three sensor kinds with their API
// tokens and slider bounds, readings as served by the remote API, and
// threshold ranges.
package sensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Room identifies a monitored room ("cuarto").
type Room int

const (
	Room1 Room = 1
	Room2 Room = 2
	Room3 Room = 3
)

// RoomCount is the number of monitored rooms.
const RoomCount = 3

// Rooms lists the monitored rooms in display order.
var Rooms = []Room{Room1, Room2, Room3}

// Valid reports whether r is one of the known rooms.
func (r Room) Valid() bool {
	return r >= Room1 && r <= Room3
}

// Index returns the zero-based position of r in Rooms.
func (r Room) Index() int {
	return int(r) - 1
}

func (r Room) String() string {
	return "Room " + strconv.Itoa(int(r))
}

// ParseRoom parses a numeric room id such as "2".
func ParseRoom(s string) (Room, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid room %q: %w", s, err)
	}
	r := Room(n)
	if !r.Valid() {
		return 0, fmt.Errorf("unknown room %d (want 1-%d)", n, RoomCount)
	}
	return r, nil
}

// Reading is one timestamped sample for a room as served by the API.
type Reading struct {
	Room        Room
	Timestamp   string // source-supplied, already shifted to GMT-6 upstream
	Temperature float64
	Humidity    float64
	AirQuality  float64
}

// Value returns the reading's value for the given sensor kind.
func (r Reading) Value(k Kind) float64 {
	switch k {
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	case AirQuality:
		return r.AirQuality
	default:
		return 0
	}
}

// Stamp returns the raw timestamp string.
func (r Reading) Stamp() string {
	return r.Timestamp
}

// Range is a [Min, Max] alert threshold.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ThresholdRange is the authoritative range for one (sensor, room) pair.
type ThresholdRange struct {
	Sensor Kind
	Room   Room
	Range
}
