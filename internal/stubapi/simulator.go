package stubapi

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/luki/airguard/internal/sensor"
)

// Simulation constants.
const (
	TimestampLayout = "2006-01-02T15:04:05"
	dropChance      = 0.15 // room 3 sometimes misses a tick
	tempDrift       = 0.4
	humidityDrift   = 1.5
	airDrift        = 15.0
)

// gmt6 matches the upstream "fecha_gmt6" field.
var gmt6 = time.FixedZone("GMT-6", -6*60*60)

type roomState struct {
	temp, humidity, air float64
}

// Simulator appends one random-walk reading per room on every tick.
type Simulator struct {
	store *Store
	rnd   *rand.Rand
	rooms map[sensor.Room]*roomState
}

// NewSimulator returns a simulator writing into store. seed makes runs
// reproducible.
func NewSimulator(store *Store, seed int64) *Simulator {
	sim := &Simulator{
		store: store,
		rnd:   rand.New(rand.NewSource(seed)),
		rooms: make(map[sensor.Room]*roomState),
	}
	for i, room := range sensor.Rooms {
		sim.rooms[room] = &roomState{
			temp:     21 + float64(i),
			humidity: 45 + 3*float64(i),
			air:      250 + 40*float64(i),
		}
	}
	return sim
}

// Run ticks at the given interval until ctx is canceled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	s.Step(time.Now())
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Step(now)
		}
	}
}

// Step produces the readings for one instant. All rooms share the same
// timestamp string so the overview can align them.
func (s *Simulator) Step(now time.Time) {
	ts := now.In(gmt6).Format(TimestampLayout)
	batch := make([]sensor.Reading, 0, len(sensor.Rooms))
	for _, room := range sensor.Rooms {
		if room == sensor.Room3 && s.rnd.Float64() < dropChance {
			continue
		}
		st := s.rooms[room]
		st.temp = s.walk(st.temp, tempDrift, sensor.Temperature.Bounds())
		st.humidity = s.walk(st.humidity, humidityDrift, sensor.Humidity.Bounds())
		st.air = s.walk(st.air, airDrift, sensor.AirQuality.Bounds())
		batch = append(batch, sensor.Reading{
			Room:        room,
			Timestamp:   ts,
			Temperature: round1(st.temp),
			Humidity:    round1(st.humidity),
			AirQuality:  round1(st.air),
		})
	}
	s.store.Append(batch...)
}

func (s *Simulator) walk(v, drift float64, b sensor.Range) float64 {
	v += (s.rnd.Float64()*2 - 1) * drift
	return math.Max(b.Min, math.Min(b.Max, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
