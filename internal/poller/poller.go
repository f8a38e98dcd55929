// Package poller runs the periodic reading fetch behind the dashboard
// screens. A fetch is issued on start and then on every tick; ticks that
// fire while a fetch is still in flight are skipped.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/sensor"
)

// DefaultInterval is the refresh period of the dashboard.
const DefaultInterval = 5 * time.Second

// Fetcher loads the full reading list.
type Fetcher interface {
	FetchReadings(ctx context.Context) ([]sensor.Reading, error)
}

// Result is the outcome of one fetch.
type Result struct {
	Gen      uint64 // poller that produced the result
	Seq      uint64 // fetch number within that poller, starting at 1
	Readings []sensor.Reading
	Err      error
	At       time.Time
}

var generations atomic.Uint64

// Poller is a cancellable periodic fetch. Each Poller has a unique
// generation so consumers can tell a torn-down poller's output apart.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	gen      uint64
	log      *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	skipped atomic.Uint64
}

// New creates a poller. It does nothing until Start.
func New(f Fetcher, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{
		fetch:    f,
		interval: interval,
		gen:      generations.Add(1),
		log:      log,
	}
}

// Gen returns the poller's generation.
func (p *Poller) Gen() uint64 {
	return p.gen
}

// Skipped returns how many ticks were skipped because a fetch was still
// in flight.
func (p *Poller) Skipped() uint64 {
	return p.skipped.Load()
}

// Start launches the polling loop and returns the result channel, which
// is closed when the loop exits. A poller runs once: calling Start again,
// even after Stop, returns nil.
func (p *Poller) Start(ctx context.Context) <-chan Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}
	ctx, p.cancel = context.WithCancel(ctx)
	out := make(chan Result)
	go p.run(ctx, out)
	p.log.Debugw("poller_started", "gen", p.gen, "interval", p.interval)
	return out
}

// Stop cancels the timer. A fetch already in flight is left to finish
// but its result is discarded. Stop is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.log.Debugw("poller_stopped", "gen", p.gen)
	}
}

func (p *Poller) run(ctx context.Context, out chan<- Result) {
	defer close(out)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	// Capacity 1 with at most one fetch in flight: the fetch goroutine
	// never blocks, even after the loop has returned.
	done := make(chan Result, 1)
	var (
		seq      uint64
		inFlight bool
	)
	launch := func() {
		if inFlight {
			p.skipped.Add(1)
			p.log.Debugw("poll_tick_skipped", "gen", p.gen, "seq", seq)
			return
		}
		inFlight = true
		seq++
		go p.fetchOnce(ctx, seq, done)
	}

	launch()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			launch()
		case r := <-done:
			inFlight = false
			if ctx.Err() != nil {
				return
			}
			if r.Err != nil {
				p.log.Warnw("poll_failed", "gen", p.gen, "seq", r.Seq, "err", r.Err)
			} else {
				p.log.Debugw("poll_ok", "gen", p.gen, "seq", r.Seq, "readings", len(r.Readings))
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}
}

// fetchOnce runs outside the poller's cancellation: stopping the poller
// does not abort the request, its result is only ignored.
func (p *Poller) fetchOnce(ctx context.Context, seq uint64, done chan<- Result) {
	readings, err := p.fetch.FetchReadings(context.WithoutCancel(ctx))
	done <- Result{Gen: p.gen, Seq: seq, Readings: readings, Err: err, At: time.Now()}
}

// Tracker decides which results may update visible state: only those of
// the current generation that are newer than the last one applied.
type Tracker struct {
	gen     uint64
	applied uint64
}

// NewTracker returns a tracker bound to generation gen.
func NewTracker(gen uint64) Tracker {
	return Tracker{gen: gen}
}

// Gen returns the generation the tracker accepts.
func (t Tracker) Gen() uint64 {
	return t.gen
}

// Accept reports whether r is authoritative and, if so, returns the
// tracker advanced past it.
func (t Tracker) Accept(r Result) (Tracker, bool) {
	if r.Gen != t.gen || r.Seq <= t.applied {
		return t, false
	}
	t.applied = r.Seq
	return t, true
}
