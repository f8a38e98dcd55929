package threshold

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/airguard/internal/sensor"
)

// Source reads and writes threshold ranges. *api.Client implements it.
type Source interface {
	FetchRange(ctx context.Context, kind sensor.Kind, room sensor.Room) (sensor.Range, error)
	ChangeRange(ctx context.Context, tr sensor.ThresholdRange) error
}

// LoadedMsg carries the result of a range fetch.
type LoadedMsg struct {
	Gen    uint64
	Sensor sensor.Kind
	Room   sensor.Room
	Range  sensor.Range
	Err    error
}

// CommittedMsg carries the result of a range write.
type CommittedMsg struct {
	Gen    uint64
	Sensor sensor.Kind
	Room   sensor.Room
	Err    error
	At     time.Time
}

// NoticeExpiredMsg fires when a success notice should be hidden.
type NoticeExpiredMsg struct {
	Gen    uint64
	Sensor sensor.Kind
	At     time.Time
}

// FetchCmd fetches the range for one sensor of a room.
func FetchCmd(ctx context.Context, src Source, gen uint64, kind sensor.Kind, room sensor.Room) tea.Cmd {
	return func() tea.Msg {
		r, err := src.FetchRange(ctx, kind, room)
		return LoadedMsg{Gen: gen, Sensor: kind, Room: room, Range: r, Err: err}
	}
}

// FetchAll issues one independent fetch per sensor kind. The fetches run
// concurrently and a failure in one does not affect the others.
func FetchAll(ctx context.Context, src Source, gen uint64, room sensor.Room) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(sensor.Kinds))
	for _, k := range sensor.Kinds {
		cmds = append(cmds, FetchCmd(ctx, src, gen, k, room))
	}
	return tea.Batch(cmds...)
}

// CommitCmd writes a range and reports the outcome.
func CommitCmd(ctx context.Context, src Source, gen uint64, tr sensor.ThresholdRange) tea.Cmd {
	return func() tea.Msg {
		err := src.ChangeRange(ctx, tr)
		return CommittedMsg{Gen: gen, Sensor: tr.Sensor, Room: tr.Room, Err: err, At: time.Now()}
	}
}

// ExpireCmd schedules the hiding of a success notice.
func ExpireCmd(gen uint64, kind sensor.Kind) tea.Cmd {
	return tea.Tick(NoticeTTL, func(t time.Time) tea.Msg {
		return NoticeExpiredMsg{Gen: gen, Sensor: kind, At: t}
	})
}
