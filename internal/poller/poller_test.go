package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/luki/airguard/internal/sensor"
)

type fakeFetcher struct {
	calls atomic.Int32
	mu    sync.Mutex
	batch [][]sensor.Reading
	err   error
	gate  chan struct{} // when non-nil every fetch waits for a value
}

func (f *fakeFetcher) FetchReadings(ctx context.Context) ([]sensor.Reading, error) {
	n := int(f.calls.Add(1))
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.batch) == 0 {
		return nil, nil
	}
	i := n - 1
	if i >= len(f.batch) {
		i = len(f.batch) - 1
	}
	return f.batch[i], nil
}

func readings(n int) []sensor.Reading {
	out := make([]sensor.Reading, n)
	for i := range out {
		out[i] = sensor.Reading{Room: sensor.Room1, Temperature: float64(i)}
	}
	return out
}

func recv(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	return Result{}
}

func TestPollerFetchesImmediately(t *testing.T) {
	f := &fakeFetcher{batch: [][]sensor.Reading{readings(3)}}
	p := New(f, time.Hour, nil)
	ch := p.Start(context.Background())
	defer p.Stop()

	r := recv(t, ch)
	if r.Seq != 1 || len(r.Readings) != 3 || r.Gen != p.Gen() {
		t.Fatalf("unexpected first result: %+v", r)
	}
}

func TestPollerTicksReplaceWholesale(t *testing.T) {
	f := &fakeFetcher{batch: [][]sensor.Reading{readings(3), readings(4)}}
	p := New(f, 20*time.Millisecond, nil)
	ch := p.Start(context.Background())
	defer p.Stop()

	first := recv(t, ch)
	second := recv(t, ch)
	if len(first.Readings) != 3 || len(second.Readings) != 4 {
		t.Fatalf("got %d then %d readings", len(first.Readings), len(second.Readings))
	}
	if second.Seq <= first.Seq {
		t.Errorf("sequence not increasing: %d then %d", first.Seq, second.Seq)
	}
}

func TestPollerErrorsDoNotStopLoop(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	p := New(f, 10*time.Millisecond, nil)
	ch := p.Start(context.Background())
	defer p.Stop()

	for i := 0; i < 3; i++ {
		if r := recv(t, ch); r.Err == nil {
			t.Fatalf("result %d: expected error", i)
		}
	}
}

func TestPollerSingleFlight(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{}), batch: [][]sensor.Reading{readings(1)}}
	p := New(f, 5*time.Millisecond, nil)
	ch := p.Start(context.Background())
	defer p.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("expected 1 fetch while blocked, got %d", got)
	}
	if p.Skipped() == 0 {
		t.Error("expected skipped ticks")
	}

	f.gate <- struct{}{}
	if r := recv(t, ch); r.Seq != 1 {
		t.Errorf("expected seq 1, got %d", r.Seq)
	}
	close(f.gate)
}

func TestPollerStopDiscardsLateResult(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{}), batch: [][]sensor.Reading{readings(2)}}
	p := New(f, time.Hour, nil)
	ch := p.Start(context.Background())

	// Wait until the first fetch is in flight, then tear down.
	deadline := time.Now().Add(time.Second)
	for f.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	p.Stop()
	close(f.gate)

	select {
	case r, ok := <-ch:
		if ok {
			t.Fatalf("late result delivered after Stop: %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Stop")
	}
}

func TestPollerStartOnce(t *testing.T) {
	p := New(&fakeFetcher{}, time.Hour, nil)
	if p.Start(context.Background()) == nil {
		t.Fatal("first Start returned nil")
	}
	p.Stop()
	p.Stop()
	if p.Start(context.Background()) != nil {
		t.Error("second Start should return nil")
	}
}

func TestPollerGenerationsUnique(t *testing.T) {
	a := New(&fakeFetcher{}, time.Second, nil)
	b := New(&fakeFetcher{}, time.Second, nil)
	if a.Gen() == b.Gen() {
		t.Fatal("generations collide")
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker(7)

	tr, ok := tr.Accept(Result{Gen: 7, Seq: 2})
	if !ok {
		t.Fatal("expected seq 2 accepted")
	}
	if _, ok := tr.Accept(Result{Gen: 7, Seq: 1}); ok {
		t.Error("stale seq 1 accepted after seq 2")
	}
	if _, ok := tr.Accept(Result{Gen: 7, Seq: 2}); ok {
		t.Error("duplicate seq accepted")
	}
	if _, ok := tr.Accept(Result{Gen: 6, Seq: 9}); ok {
		t.Error("result of an old generation accepted")
	}
	if _, ok := tr.Accept(Result{Gen: 7, Seq: 3}); !ok {
		t.Error("newer seq rejected")
	}
}
