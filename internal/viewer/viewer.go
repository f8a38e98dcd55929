// Package viewer implements the room detail screen: one room's readings
// over a time window with cursor scrubbing, a sparkline per sensor and the
// three threshold range sliders.
package viewer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airguard/internal/chart"
	"github.com/luki/airguard/internal/dataset"
	"github.com/luki/airguard/internal/history"
	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/sensor"
	"github.com/luki/airguard/internal/threshold"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorBorder = lipgloss.Color("62")
	colorTitle  = lipgloss.Color("147")
	colorLabel  = lipgloss.Color("252")
	colorDim    = lipgloss.Color("240")
	colorSeries = lipgloss.Color("111")
	colorCursor = lipgloss.Color("214")
	colorOk     = lipgloss.Color("78")
	colorCrit   = lipgloss.Color("196")
)

const handlesPerSensor = 2

// Config wires a room screen to its data source.
type Config struct {
	Source   threshold.Source
	Gen      uint64 // generation of the poller feeding this screen
	Room     sensor.Room
	Location *time.Location
	Log      *logger.Logger
	Now      func() time.Time
}

// ── Model ────────────────────────────────────────────────────────────

// Model is the room detail screen. It is driven by its parent, which
// feeds it readings with WithReadings and forwards key and threshold
// messages to Update.
type Model struct {
	ctx  context.Context
	src  threshold.Source
	gen  uint64
	room sensor.Room
	loc  *time.Location
	log  *logger.Logger
	now  func() time.Time

	readings []sensor.Reading
	window   dataset.Window
	hide     [sensor.KindCount]bool
	overlay  bool
	cursor   int // index into the windowed records, -1 follows the latest
	selected int // slider handle: sensor index * 2 + handle
	editors  [sensor.KindCount]threshold.Editor
	width    int
}

// New creates the screen for cfg.Room. Range fetches start with Init.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	m := Model{
		ctx:     ctx,
		src:     cfg.Source,
		gen:     cfg.Gen,
		room:    cfg.Room,
		loc:     cfg.Location,
		log:     cfg.Log,
		now:     cfg.Now,
		window:  dataset.Last50,
		overlay: true,
		cursor:  -1,
	}
	for i, k := range sensor.Kinds {
		m.editors[i] = threshold.New(k, cfg.Room)
	}
	return m
}

// Room returns the room this screen shows.
func (m Model) Room() sensor.Room { return m.room }

// Editor returns the threshold editor for kind.
func (m Model) Editor(kind sensor.Kind) threshold.Editor {
	return m.editors[kind.Index()]
}

// WithReadings replaces the reading list the screen charts.
func (m Model) WithReadings(readings []sensor.Reading) Model {
	m.readings = readings
	return m
}

func (m Model) records(now time.Time) []dataset.Record {
	return dataset.Apply(dataset.ForRoom(m.readings, m.room, now, m.loc), m.window, now, m.loc)
}

func (m Model) cursorAt(n int) int {
	if m.cursor < 0 || m.cursor >= n {
		return n - 1
	}
	return m.cursor
}

func (m Model) selection() (int, threshold.Handle) {
	return m.selected / handlesPerSensor, threshold.Handle(m.selected % handlesPerSensor)
}

// ── Init / Update ────────────────────────────────────────────────────

// Init fetches the three threshold ranges of the room concurrently.
func (m Model) Init() tea.Cmd {
	return threshold.FetchAll(m.ctx, m.src, m.gen, m.room)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case threshold.LoadedMsg:
		if msg.Gen != m.gen || msg.Room != m.room || msg.Sensor.Index() < 0 {
			return m, nil
		}
		i := msg.Sensor.Index()
		if msg.Err != nil {
			m.log.Warnw("range_fetch_failed", "room", int(m.room), "sensor", string(msg.Sensor), "error", msg.Err)
			m.editors[i] = m.editors[i].LoadFailed(msg.Err)
			return m, nil
		}
		m.editors[i] = m.editors[i].Loaded(msg.Range)

	case threshold.CommittedMsg:
		if msg.Gen != m.gen || msg.Room != m.room || msg.Sensor.Index() < 0 {
			return m, nil
		}
		i := msg.Sensor.Index()
		m.editors[i] = m.editors[i].Committed(msg.Err, msg.At)
		if msg.Err != nil {
			m.log.Errorw("range_update_failed", "room", int(m.room), "sensor", string(msg.Sensor), "error", msg.Err)
			return m, nil
		}
		return m, threshold.ExpireCmd(m.gen, msg.Sensor)

	case threshold.NoticeExpiredMsg:
		if msg.Gen != m.gen || msg.Sensor.Index() < 0 {
			return m, nil
		}
		i := msg.Sensor.Index()
		m.editors[i] = m.editors[i].ExpireNotice(msg.At)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.records(m.now()))

	switch {
	case key.Matches(msg, keys.Window):
		m.window = m.window.Next()
		m.cursor = -1

	case key.Matches(msg, keys.Temperature):
		m.hide[0] = !m.hide[0]
	case key.Matches(msg, keys.Humidity):
		m.hide[1] = !m.hide[1]
	case key.Matches(msg, keys.AirQuality):
		m.hide[2] = !m.hide[2]
	case key.Matches(msg, keys.Overlay):
		m.overlay = !m.overlay

	case key.Matches(msg, keys.Prev):
		if n > 0 {
			m.cursor = max(m.cursorAt(n)-1, 0)
		}
	case key.Matches(msg, keys.Next):
		if m.cursor >= 0 {
			m.cursor++
			if m.cursor >= n-1 {
				m.cursor = -1
			}
		}
	case key.Matches(msg, keys.First):
		if n > 0 {
			m.cursor = 0
		}
	case key.Matches(msg, keys.Last):
		m.cursor = -1

	case key.Matches(msg, keys.Up):
		total := len(sensor.Kinds) * handlesPerSensor
		m.selected = (m.selected + total - 1) % total
	case key.Matches(msg, keys.Down):
		m.selected = (m.selected + 1) % (len(sensor.Kinds) * handlesPerSensor)

	case key.Matches(msg, keys.Left):
		m = m.nudge(-1)
	case key.Matches(msg, keys.Right):
		m = m.nudge(1)
	case key.Matches(msg, keys.CoarseLeft):
		m = m.nudge(-10)
	case key.Matches(msg, keys.CoarseRight):
		m = m.nudge(10)

	case key.Matches(msg, keys.Commit):
		i, _ := m.selection()
		ed, tr, ok := m.editors[i].Release()
		m.editors[i] = ed
		if !ok {
			return m, nil
		}
		m.log.Infow("range_commit", "room", int(tr.Room), "sensor", string(tr.Sensor), "min", tr.Min, "max", tr.Max)
		return m, threshold.CommitCmd(m.ctx, m.src, m.gen, tr)

	case key.Matches(msg, keys.Reload):
		var cmds []tea.Cmd
		for i, ed := range m.editors {
			if ed.State() != threshold.Failed {
				continue
			}
			m.editors[i] = ed.Reload()
			cmds = append(cmds, threshold.FetchCmd(m.ctx, m.src, m.gen, ed.Sensor(), m.room))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) nudge(steps float64) Model {
	i, h := m.selection()
	m.editors[i] = m.editors[i].Nudge(h, steps*sensor.Kinds[i].Step())
	return m
}

// ── View ─────────────────────────────────────────────────────────────

// View renders the screen body. The parent adds title and footer.
func (m Model) View() string {
	now := m.now()
	width := m.width - 2
	if width < 40 {
		width = 40
	}

	recs := m.records(now)

	var sections []string
	if len(recs) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(1, 0).
			Align(lipgloss.Center).
			Width(width).
			Render(fmt.Sprintf("No readings for %s in window %q.", m.room, m.window.Label()))
		sections = append(sections, empty)
	} else {
		idx := m.cursorAt(len(recs))
		sections = append(sections, m.renderCursorInfo(recs, idx, width))
		sections = append(sections, m.renderPanel(recs, idx, width))
	}
	sections = append(sections, m.renderSliders(now, width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderCursorInfo(recs []dataset.Record, idx int, width int) string {
	r := recs[idx]
	ts := lipgloss.NewStyle().
		Foreground(colorCursor).
		Bold(true).
		Render(r.Timestamp)

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	age := dimS.Render("  " + r.Age)

	mode := "live"
	if m.cursor >= 0 {
		mode = fmt.Sprintf("%d/%d", idx+1, len(recs))
	}
	pos := dimS.Render(fmt.Sprintf("  %s  [%s]", mode, m.window.Label()))

	info := ts + age + pos
	barWidth := width - lipgloss.Width(info) - 6
	if barWidth < 10 {
		barWidth = 10
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(info + "  " + m.renderScrubber(recs, idx, barWidth))
}

func (m Model) renderScrubber(recs []dataset.Record, idx int, width int) string {
	if len(recs) == 0 || width <= 0 {
		return ""
	}

	pos := 0
	if len(recs) > 1 {
		pos = idx * (width - 1) / (len(recs) - 1)
	}
	if pos >= width {
		pos = width - 1
	}

	var sb strings.Builder
	dimS := lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	curS := lipgloss.NewStyle().Foreground(colorCursor).Bold(true)
	tickS := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i := 0; i < width; i++ {
		if i == pos {
			sb.WriteString(curS.Render("◆"))
			continue
		}
		slot := 0
		if len(recs) > 1 && width > 1 {
			slot = i * (len(recs) - 1) / (width - 1)
		}
		if slot > 0 && slot < len(recs) {
			t, err1 := sensor.ParseTimestamp(recs[slot].Timestamp, m.loc)
			prev, err2 := sensor.ParseTimestamp(recs[slot-1].Timestamp, m.loc)
			if err1 == nil && err2 == nil && t.Hour() != prev.Hour() {
				sb.WriteString(tickS.Render("│"))
				continue
			}
		}
		sb.WriteString(dimS.Render("─"))
	}

	return sb.String()
}

// series builds one buffer per sensor kind from the records up to and
// including the cursor.
func (m Model) series(recs []dataset.Record, idx int) *history.Store {
	upto := recs[:idx+1]
	s := history.NewStore(len(upto))
	for _, r := range upto {
		t, _ := sensor.ParseTimestamp(r.Timestamp, m.loc)
		for _, k := range sensor.Kinds {
			s.Record(string(k), r.Value(k), t)
		}
	}
	return s
}

func (m Model) renderPanel(recs []dataset.Record, idx int, totalWidth int) string {
	innerWidth := totalWidth - 4
	chartWidth := innerWidth - 72
	if chartWidth < 15 {
		chartWidth = 15
	}
	if chartWidth > 140 {
		chartWidth = 140
	}

	labelW := 13
	valW := 10

	title := lipgloss.NewStyle().Bold(true).Foreground(colorTitle).Render(m.room.String())
	rows := []string{title}

	store := m.series(recs, idx)
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	var lastPts []history.Point
	for i, k := range sensor.Kinds {
		if m.hide[i] {
			continue
		}
		buf := store.Get(string(k))
		if buf == nil || buf.Empty() {
			continue
		}

		color := chart.Solid(colorSeries)
		rng, hasRange := m.editors[i].Value()
		showRange := m.overlay && hasRange

		pad := k.Step() * 2
		lo, hi := chart.Span(buf.Min, buf.Peak, pad)
		if showRange {
			color = chart.Banded(rng)
			lo, hi = chart.Span(buf.Min, buf.Peak, pad, rng.Min, rng.Max)
		}

		label := lipgloss.NewStyle().
			Foreground(colorLabel).
			Bold(true).
			Width(labelW).
			Render(k.Label())

		cur, _ := buf.Last()
		val := lipgloss.NewStyle().
			Width(valW).
			Align(lipgloss.Right).
			Render(chart.RenderValue(cur, true, k.Unit(), color))

		pts := buf.LastNPoints(chartWidth)
		lastPts = pts
		spark := frameL + chart.RenderSparklinePoints(pts, chartWidth, lo, hi, color) + frameR

		stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%6.1f", buf.Avg())) +
			dimS.Render(" lo") + valS.Render(fmt.Sprintf("%6.1f", buf.Min)) +
			dimS.Render(" pk") + valS.Render(fmt.Sprintf("%6.1f", buf.Peak))

		var tags string
		if showRange {
			tags = dimS.Render("  ") + lipgloss.NewStyle().Foreground(lipgloss.Color("220")).
				Render(fmt.Sprintf("%g..%g", rng.Min, rng.Max))
		}

		rows = append(rows, label+" "+val+" "+spark+stats+tags)

		if showRange {
			bar := chart.RenderRangeBar(cur, true, k.Bounds(), rng, chartWidth)
			rows = append(rows, strings.Repeat(" ", labelW+valW+3)+bar)
		}
	}

	if lastPts != nil {
		timeline := chart.RenderTimeline(lastPts, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			rows = append(rows, strings.Repeat(" ", labelW+valW+3)+timeline)
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderSliders(now time.Time, totalWidth int) string {
	sliderW := totalWidth - 50
	if sliderW < 20 {
		sliderW = 20
	}
	if sliderW > 80 {
		sliderW = 80
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	errS := lipgloss.NewStyle().Foreground(colorCrit)
	okS := lipgloss.NewStyle().Foreground(colorOk)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorTitle).Render("Alert ranges")
	rows := []string{title}

	selKind, selHandle := m.selection()
	for i, k := range sensor.Kinds {
		ed := m.editors[i]

		marker := "  "
		active := -1
		if i == selKind {
			marker = lipgloss.NewStyle().Foreground(colorCursor).Render("› ")
			active = int(selHandle)
		}
		label := lipgloss.NewStyle().Foreground(colorLabel).Width(13).Render(k.Label())

		var body string
		switch ed.State() {
		case threshold.Uninitialized:
			body = dimS.Render("loading range...")
		case threshold.Failed:
			body = errS.Render(ed.Err()) + dimS.Render("  (r to retry)")
		default:
			r, _ := ed.Value()
			body = chart.RenderSlider(k.Bounds(), r, active, sliderW) +
				lipgloss.NewStyle().Foreground(colorLabel).Render(fmt.Sprintf("  %g..%g %s", r.Min, r.Max, k.Unit()))
			switch ed.State() {
			case threshold.Dragging:
				body += dimS.Render("  (enter to save)")
			case threshold.Committing:
				body += dimS.Render("  saving...")
			}
			if n := ed.Notice(now); n != "" {
				body += "  " + okS.Render(n)
			}
		}

		rows = append(rows, marker+label+" "+body)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
