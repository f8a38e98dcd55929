// Package history provides bounded chart series with per-series
// min/peak/avg statistics. Points may be marked missing, which keeps a
// column in the chart without contributing to the statistics.
package history

import (
	"math"
	"time"
)

// Point is a single data point of a series.
type Point struct {
	Value   float64
	Time    time.Time
	Missing bool
}

// Buffer stores a ring buffer of points for one series.
type Buffer struct {
	Points []Point
	Max    int // capacity
	Min    float64
	Peak   float64
	count  int // present (non-missing) points pushed
	sum    float64
}

// NewBuffer creates a new ring buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		Points: make([]Point, 0, capacity),
		Max:    capacity,
		Min:    math.MaxFloat64,
		Peak:   -math.MaxFloat64,
	}
}

func (b *Buffer) push(p Point) {
	if len(b.Points) >= b.Max {
		old := b.Points[0]
		if !old.Missing {
			b.count--
			b.sum -= old.Value
		}
		copy(b.Points, b.Points[1:])
		b.Points[len(b.Points)-1] = p
	} else {
		b.Points = append(b.Points, p)
	}
}

// Push adds a value to the series.
func (b *Buffer) Push(v float64, t time.Time) {
	b.push(Point{Value: v, Time: t})
	b.count++
	b.sum += v
	if v < b.Min {
		b.Min = v
	}
	if v > b.Peak {
		b.Peak = v
	}
}

// PushMissing adds a gap at time t.
func (b *Buffer) PushMissing(t time.Time) {
	b.push(Point{Time: t, Missing: true})
}

// Empty reports whether the series holds no present values.
func (b *Buffer) Empty() bool {
	return b.count == 0
}

// Last returns the most recent present value and whether one exists.
func (b *Buffer) Last() (float64, bool) {
	for i := len(b.Points) - 1; i >= 0; i-- {
		if !b.Points[i].Missing {
			return b.Points[i].Value, true
		}
	}
	return 0, false
}

// Avg returns the average of the present values currently stored.
func (b *Buffer) Avg() float64 {
	if b.count == 0 {
		return 0
	}
	return b.sum / float64(b.count)
}

// LastNPoints returns a copy of the last n points, gaps included.
func (b *Buffer) LastNPoints(n int) []Point {
	if n <= 0 || len(b.Points) == 0 {
		return nil
	}
	start := len(b.Points) - n
	if start < 0 {
		start = 0
	}
	out := make([]Point, len(b.Points[start:]))
	copy(out, b.Points[start:])
	return out
}

// Store manages one buffer per series key.
type Store struct {
	Data     map[string]*Buffer
	Capacity int
}

// NewStore creates a new store with the given per-series capacity.
func NewStore(capacity int) *Store {
	return &Store{
		Data:     make(map[string]*Buffer),
		Capacity: capacity,
	}
}

func (s *Store) buffer(key string) *Buffer {
	b, ok := s.Data[key]
	if !ok {
		b = NewBuffer(s.Capacity)
		s.Data[key] = b
	}
	return b
}

// Record adds a value for the given series key.
func (s *Store) Record(key string, v float64, t time.Time) {
	s.buffer(key).Push(v, t)
}

// RecordMissing adds a gap for the given series key.
func (s *Store) RecordMissing(key string, t time.Time) {
	s.buffer(key).PushMissing(t)
}

// Get returns the buffer for a series key, or nil.
func (s *Store) Get(key string) *Buffer {
	return s.Data[key]
}
