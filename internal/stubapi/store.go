// Package stubapi serves an in-memory stand-in for the remote sensor API
// so the dashboard can run offline and be tested end to end.
package stubapi

import (
	"fmt"
	"sync"

	"github.com/luki/airguard/internal/sensor"
)

type rangeKey struct {
	kind sensor.Kind
	room sensor.Room
}

// defaultRanges seed every room with the same thresholds.
var defaultRanges = map[sensor.Kind]sensor.Range{
	sensor.Temperature: {Min: 18, Max: 26},
	sensor.Humidity:    {Min: 30, Max: 60},
	sensor.AirQuality:  {Min: 0, Max: 400},
}

// Store keeps a bounded reading log and the threshold ranges.
type Store struct {
	mu       sync.RWMutex
	readings []sensor.Reading
	capacity int
	ranges   map[rangeKey]sensor.Range
}

// NewStore creates a store holding at most capacity readings.
func NewStore(capacity int) *Store {
	s := &Store{
		readings: make([]sensor.Reading, 0, capacity),
		capacity: capacity,
		ranges:   make(map[rangeKey]sensor.Range),
	}
	for _, room := range sensor.Rooms {
		for kind, r := range defaultRanges {
			s.ranges[rangeKey{kind, room}] = r
		}
	}
	return s
}

// Append adds readings, evicting the oldest beyond capacity.
func (s *Store) Append(rs ...sensor.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, rs...)
	if over := len(s.readings) - s.capacity; over > 0 {
		copy(s.readings, s.readings[over:])
		s.readings = s.readings[:s.capacity]
	}
}

// Readings returns a copy of the reading log, oldest first.
func (s *Store) Readings() []sensor.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sensor.Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

// Range returns the stored range for (kind, room).
func (s *Store) Range(kind sensor.Kind, room sensor.Room) (sensor.Range, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ranges[rangeKey{kind, room}]
	return r, ok
}

// SetRange validates and stores a range.
func (s *Store) SetRange(tr sensor.ThresholdRange) error {
	if !tr.Sensor.Valid() {
		return fmt.Errorf("unknown sensor %q", tr.Sensor)
	}
	if !tr.Room.Valid() {
		return fmt.Errorf("unknown room %d", tr.Room)
	}
	if tr.Min > tr.Max {
		return fmt.Errorf("minimum %v exceeds maximum %v", tr.Min, tr.Max)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[rangeKey{tr.Sensor, tr.Room}] = tr.Range
	return nil
}
