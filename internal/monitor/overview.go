package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airguard/internal/chart"
	"github.com/luki/airguard/internal/dataset"
	"github.com/luki/airguard/internal/history"
	"github.com/luki/airguard/internal/sensor"
)

// overviewSeries pivots the windowed aligned rows into one buffer per
// room. A room without a reading at a timestamp gets a gap there.
func overviewSeries(rows []dataset.Aligned, loc *time.Location) *history.Store {
	s := history.NewStore(max(len(rows), 1))
	for _, row := range rows {
		t, _ := sensor.ParseTimestamp(row.Timestamp, loc)
		for _, room := range sensor.Rooms {
			if v, ok := row.Value(room); ok {
				s.Record(room.String(), v, t)
			} else {
				s.RecordMissing(room.String(), t)
			}
		}
	}
	return s
}

func (m Model) renderOverview(now time.Time, totalWidth int) []string {
	loc := m.deps.Location
	rows := dataset.Apply(dataset.Align(m.readings, m.metric, now, loc), m.window, now, loc)

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	chip := lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
	header := lipgloss.NewStyle().Padding(0, 1).Render(
		dimS.Render("metric ") + chip.Render(m.metric.Label()) +
			dimS.Render("   window ") + chip.Render(m.window.Label()) +
			dimS.Render(fmt.Sprintf("   %d timestamps", len(rows))),
	)

	if len(rows) == 0 {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(totalWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data...")
		return []string{header, waiting}
	}

	innerWidth := totalWidth - 4
	chartWidth := innerWidth - 60
	if chartWidth < 15 {
		chartWidth = 15
	}
	if chartWidth > 140 {
		chartWidth = 140
	}

	labelW := 10
	valW := 10

	store := overviewSeries(rows, loc)

	// one scale for every room so the rows compare
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, room := range sensor.Rooms {
		b := store.Get(room.String())
		if b == nil || b.Empty() {
			continue
		}
		lo = math.Min(lo, b.Min)
		hi = math.Max(hi, b.Peak)
	}
	if lo > hi {
		lo, hi = 0, 1
	}
	lo, hi = chart.Span(lo, hi, m.metric.Step()*2)

	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var lines []string
	var lastPts []history.Point
	for _, room := range sensor.Rooms {
		b := store.Get(room.String())
		color := chart.Solid(roomColors[room])

		label := lipgloss.NewStyle().
			Foreground(roomColors[room]).
			Bold(true).
			Width(labelW).
			Render(room.String())

		last, ok := b.Last()
		val := lipgloss.NewStyle().
			Width(valW).
			Align(lipgloss.Right).
			Render(chart.RenderValue(last, ok, m.metric.Unit(), color))

		pts := b.LastNPoints(chartWidth)
		lastPts = pts
		spark := frameL + chart.RenderSparklinePoints(pts, chartWidth, lo, hi, color) + frameR

		stats := dimS.Render(" no data")
		if !b.Empty() {
			stats = dimS.Render(" avg") + valS.Render(fmt.Sprintf("%6.1f", b.Avg())) +
				dimS.Render(" lo") + valS.Render(fmt.Sprintf("%6.1f", b.Min)) +
				dimS.Render(" pk") + valS.Render(fmt.Sprintf("%6.1f", b.Peak))
		}

		lines = append(lines, label+" "+val+" "+spark+stats)
	}

	if lastPts != nil {
		timeline := chart.RenderTimeline(lastPts, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			lines = append(lines, strings.Repeat(" ", labelW+valW+3)+timeline)
		}
	}

	latest := rows[len(rows)-1]
	lines = append(lines, dimS.Render(fmt.Sprintf("latest %s (%s)", latest.Timestamp, latest.Age)))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return []string{header, panel}
}
