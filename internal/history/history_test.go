package history

import (
	"testing"
	"time"
)

func TestHistory(t *testing.T) {
	h := NewBuffer(5)

	now := time.Now()
	for i := 0; i < 7; i++ {
		h.Push(float64(30+i), now.Add(time.Duration(i)*time.Second))
	}

	if len(h.Points) != 5 {
		t.Errorf("expected 5 points, got %d", len(h.Points))
	}

	if last, ok := h.Last(); !ok || last != 36.0 {
		t.Errorf("Last(): got %f, want 36.0", last)
	}

	if h.Min != 30.0 {
		t.Errorf("Min: got %f, want 30.0", h.Min)
	}

	if h.Peak != 36.0 {
		t.Errorf("Peak: got %f, want 36.0", h.Peak)
	}

	// avg of the retained 32..36
	if h.Avg() != 34.0 {
		t.Errorf("Avg: got %f, want 34.0", h.Avg())
	}

	pts := h.LastNPoints(3)
	if len(pts) != 3 || pts[0].Value != 34 || pts[2].Value != 36 {
		t.Errorf("LastNPoints(3): got %v", pts)
	}
}

func TestMissingPoints(t *testing.T) {
	h := NewBuffer(10)
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	h.Push(10, base)
	h.PushMissing(base.Add(time.Second))
	h.Push(20, base.Add(2*time.Second))
	h.PushMissing(base.Add(3 * time.Second))

	if len(h.Points) != 4 {
		t.Fatalf("expected 4 points including gaps, got %d", len(h.Points))
	}
	if h.Avg() != 15 {
		t.Errorf("Avg should ignore gaps: got %f", h.Avg())
	}
	if last, ok := h.Last(); !ok || last != 20 {
		t.Errorf("Last should skip trailing gap: got %v %v", last, ok)
	}
	if pts := h.LastNPoints(5); len(pts) != 4 || !pts[1].Missing || !pts[3].Missing {
		t.Errorf("LastNPoints should keep gaps in place: %v", pts)
	}

	empty := NewBuffer(3)
	empty.PushMissing(base)
	if !empty.Empty() {
		t.Error("buffer with only gaps should be empty")
	}
	if _, ok := empty.Last(); ok {
		t.Error("Last on gap-only buffer should report no value")
	}
}

func TestLastNPoints(t *testing.T) {
	h := NewBuffer(100)
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	for i := 0; i < 120; i++ {
		h.Push(float64(30+i%10), base.Add(time.Duration(i)*time.Second))
	}

	pts := h.LastNPoints(5)
	if len(pts) != 5 {
		t.Fatalf("LastNPoints(5): got %d, want 5", len(pts))
	}

	for _, p := range pts {
		if p.Time.IsZero() {
			t.Error("expected non-zero timestamp")
		}
	}

	last := pts[len(pts)-1]
	if last.Time != base.Add(119*time.Second) {
		t.Errorf("last point time: got %v, want %v", last.Time, base.Add(119*time.Second))
	}
}

func TestStore(t *testing.T) {
	s := NewStore(4)
	now := time.Now()
	s.Record("room1", 1, now)
	s.RecordMissing("room2", now)

	if s.Get("room1") == nil || s.Get("room2") == nil {
		t.Fatal("expected both series")
	}
	if s.Get("room3") != nil {
		t.Error("unexpected series")
	}
	if !s.Get("room2").Empty() {
		t.Error("room2 holds only a gap")
	}
}
