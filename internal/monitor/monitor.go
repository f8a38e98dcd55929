// Package monitor implements the dashboard shell: it routes between the
// overview, room detail and settings screens and owns the reading poller,
// restarting it with a new generation on every route change.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airguard/internal/api"
	"github.com/luki/airguard/internal/config"
	"github.com/luki/airguard/internal/dataset"
	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/poller"
	"github.com/luki/airguard/internal/sensor"
	"github.com/luki/airguard/internal/threshold"
	"github.com/luki/airguard/internal/viewer"
)

const clockInterval = time.Second

// Client is everything the dashboard needs from the API.
type Client interface {
	poller.Fetcher
	threshold.Source
}

// Deps are the collaborators of the dashboard.
type Deps struct {
	Context  context.Context
	Client   Client
	Config   config.Config
	Location *time.Location
	Log      *logger.Logger
	Now      func() time.Time
}

// ── Routes ───────────────────────────────────────────────────────────

// Screen identifies a top-level screen.
type Screen int

const (
	Overview Screen = iota
	RoomDetail
	Settings
)

// Route is a screen plus its parameters.
type Route struct {
	Screen Screen
	Room   sensor.Room // RoomDetail only
}

// RoomRoute returns the route of a room's detail screen.
func RoomRoute(r sensor.Room) Route {
	return Route{Screen: RoomDetail, Room: r}
}

func (r Route) String() string {
	switch r.Screen {
	case RoomDetail:
		return r.Room.String()
	case Settings:
		return "Settings"
	default:
		return "Overview"
	}
}

// ── Messages ─────────────────────────────────────────────────────────

type routeMsg struct{ route Route }

type pollMsg struct {
	result poller.Result
	ch     <-chan poller.Result
}

type tickMsg time.Time

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model of the dashboard shell.
type Model struct {
	deps Deps

	route   Route
	poller  *poller.Poller
	tracker poller.Tracker

	readings []sensor.Reading
	err      error
	lastPoll time.Time

	metric sensor.Kind
	window dataset.Window
	room   viewer.Model

	help      help.Model
	width     int
	height    int
	startTime time.Time
}

// New creates the dashboard. It navigates to start once the program runs.
func New(deps Deps, start Route) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return Model{
		deps:      deps,
		route:     start,
		metric:    sensor.Temperature,
		window:    dataset.Last50,
		help:      help.New(),
		startTime: deps.Now(),
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listen waits for the next result on ch. It yields nil once ch closes,
// which ends the chain for a stopped poller.
func listen(ch <-chan poller.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return pollMsg{result: r, ch: ch}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	start := m.route
	return tea.Batch(
		func() tea.Msg { return routeMsg{route: start} },
		tickCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.room, _ = m.room.Update(msg)

	case tickMsg:
		return m, tickCmd()

	case routeMsg:
		return m.navigate(msg.route)

	case pollMsg:
		return m.applyPoll(msg)

	case threshold.LoadedMsg, threshold.CommittedMsg, threshold.NoticeExpiredMsg:
		if m.route.Screen != RoomDetail {
			return m, nil
		}
		var cmd tea.Cmd
		m.room, cmd = m.room.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.stopPoller()
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Overview):
		return m.navigate(Route{Screen: Overview})
	case key.Matches(msg, keys.Room1):
		return m.navigate(RoomRoute(sensor.Room1))
	case key.Matches(msg, keys.Room2):
		return m.navigate(RoomRoute(sensor.Room2))
	case key.Matches(msg, keys.Room3):
		return m.navigate(RoomRoute(sensor.Room3))
	case key.Matches(msg, keys.Settings):
		return m.navigate(Route{Screen: Settings})
	}

	switch m.route.Screen {
	case RoomDetail:
		var cmd tea.Cmd
		m.room, cmd = m.room.Update(msg)
		return m, cmd
	case Overview:
		switch {
		case key.Matches(msg, overviewKeys.Metric):
			m.metric = m.metric.Next()
		case key.Matches(msg, overviewKeys.Window):
			m.window = m.window.Next()
		}
	}
	return m, nil
}

func (m *Model) stopPoller() {
	if m.poller != nil {
		m.poller.Stop()
		m.poller = nil
	}
}

// navigate tears down the current screen's poller and starts a fresh
// one for the new route. Results still in flight for the old poller
// carry its generation and are rejected by the new tracker. Navigating
// to the route already shown keeps the running screen as it is.
func (m Model) navigate(r Route) (tea.Model, tea.Cmd) {
	if r == m.route && (m.poller != nil || r.Screen == Settings) {
		return m, nil
	}
	m.stopPoller()
	m.route = r
	m.tracker = poller.NewTracker(0)

	m.deps.Log.Infow("navigate", "route", r.String())

	if r.Screen == Settings {
		return m, nil
	}

	p := poller.New(m.deps.Client, m.deps.Config.Poll.Interval, m.deps.Log)
	ch := p.Start(m.deps.Context)
	m.poller = p
	m.tracker = poller.NewTracker(p.Gen())

	cmds := []tea.Cmd{listen(ch)}
	if r.Screen == RoomDetail {
		m.room = viewer.New(m.deps.Context, viewer.Config{
			Source:   m.deps.Client,
			Gen:      p.Gen(),
			Room:     r.Room,
			Location: m.deps.Location,
			Log:      m.deps.Log,
			Now:      m.deps.Now,
		}).WithReadings(m.readings)
		m.room, _ = m.room.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmds = append(cmds, m.room.Init())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) applyPoll(msg pollMsg) (tea.Model, tea.Cmd) {
	next := listen(msg.ch)

	tracker, ok := m.tracker.Accept(msg.result)
	if !ok {
		m.deps.Log.Debugw("poll_result_dropped", "gen", msg.result.Gen, "seq", msg.result.Seq, "current_gen", m.tracker.Gen())
		return m, next
	}
	m.tracker = tracker
	m.lastPoll = msg.result.At

	if msg.result.Err != nil {
		m.err = msg.result.Err
		return m, next
	}

	m.err = nil
	m.readings = msg.result.Readings
	if m.route.Screen == RoomDetail {
		m.room = m.room.WithReadings(m.readings)
	}
	return m, next
}

// Readings returns the reading list currently displayed.
func (m Model) Readings() []sensor.Reading {
	return m.readings
}

// Route returns the active route.
func (m Model) Route() Route {
	return m.route
}

// errorText renders a fetch error for the banner.
func errorText(err error) string {
	return api.Describe(err)
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorHeading  = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorCrit     = lipgloss.Color("196")
)

var roomColors = map[sensor.Room]lipgloss.Color{
	sensor.Room1: lipgloss.Color("#8884d8"),
	sensor.Room2: lipgloss.Color("#82ca9d"),
	sensor.Room3: lipgloss.Color("#ff7300"),
}

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}
	now := m.deps.Now()

	var sections []string

	sections = append(sections, m.renderTitleBar(now, contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(" ERROR: " + errorText(m.err))
		sections = append(sections, errBox)
	}

	var screen help.KeyMap
	switch m.route.Screen {
	case RoomDetail:
		sections = append(sections, m.room.View())
		screen = viewer.Keys()
	case Settings:
		sections = append(sections, m.renderSettings(contentWidth))
	default:
		sections = append(sections, m.renderOverview(now, contentWidth)...)
		screen = overviewKeys
	}

	sections = append(sections, m.renderFooter(contentWidth, screen))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	if m.height > 0 && len(lines) > m.height {
		// keep the footer visible
		lines = append(lines[:m.height-1], lines[len(lines)-1])
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTitleBar(now time.Time, width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("AIRGUARD")
	name := m.route.String()
	if m.route.Screen == RoomDetail {
		name = m.room.Room().String()
	}
	screen := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true).
		Render("  " + name)

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	statusParts := []string{
		dimS.Render(fmt.Sprintf("up %s", fmtDuration(now.Sub(m.startTime)))),
	}
	if !m.lastPoll.IsZero() {
		statusParts = append(statusParts, dimS.Render("polled "+m.lastPoll.In(m.deps.Location).Format("15:04:05")))
	}
	if n := len(m.readings); n > 0 {
		latest := m.readings[n-1].Timestamp
		statusParts = append(statusParts, dimS.Render(fmt.Sprintf("%d readings, latest %s", n, sensor.AgeLabel(latest, now, m.deps.Location))))
	}

	sep := dimS.Render(" │ ")
	right := strings.Join(statusParts, sep)

	left := logo + screen
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter(width int, screen help.KeyMap) string {
	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(m.help.View(screenKeys{screen: screen}))
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, mins, s)
	}
	return fmt.Sprintf("%dm%02ds", mins, s)
}
