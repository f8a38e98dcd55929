// Package chart provides sparkline rendering with pluggable colouring,
// minute tick marks, timeline labels, threshold range bars and the
// two-handle threshold slider.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airguard/internal/history"
	"github.com/luki/airguard/internal/sensor"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const gapRune = "╌"

var (
	colorGap    = lipgloss.Color("236")
	colorTick   = lipgloss.Color("239")
	colorBelow  = lipgloss.Color("39")
	colorOk     = lipgloss.Color("78")
	colorNear   = lipgloss.Color("220")
	colorAbove  = lipgloss.Color("196")
	colorHandle = lipgloss.Color("252")
	colorActive = lipgloss.Color("214")
)

// ColorFunc picks the colour for a value.
type ColorFunc func(v float64) lipgloss.Color

// Solid colours every value the same.
func Solid(c lipgloss.Color) ColorFunc {
	return func(float64) lipgloss.Color { return c }
}

// Banded colours a value by its position relative to a threshold range:
// blue below, red above, yellow within 10% of either edge, green otherwise.
func Banded(r sensor.Range) ColorFunc {
	margin := (r.Max - r.Min) * 0.1
	return func(v float64) lipgloss.Color {
		if !r.Contains(v) {
			if v < r.Min {
				return colorBelow
			}
			return colorAbove
		}
		if v-r.Min < margin || r.Max-v < margin {
			return colorNear
		}
		return colorOk
	}
}

// Span returns a vertical scale covering [lo, hi] padded by pad on both
// sides and widened to include any extra values. The lower end never
// drops below zero since none of the sensors report negative values.
func Span(lo, hi, pad float64, extra ...float64) (float64, float64) {
	for _, v := range extra {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo = math.Max(0, lo-pad)
	hi += pad
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// fill resolves the value drawn for every point. Missing points between
// two present points are linearly interpolated; leading and trailing
// missing points stay unresolved.
func fill(points []history.Point) (vals []float64, known []bool, interp []bool) {
	vals = make([]float64, len(points))
	known = make([]bool, len(points))
	interp = make([]bool, len(points))

	prev := -1
	for i, p := range points {
		if p.Missing {
			continue
		}
		vals[i] = p.Value
		known[i] = true
		if prev >= 0 && i-prev > 1 {
			a, b := points[prev].Value, p.Value
			for j := prev + 1; j < i; j++ {
				f := float64(j-prev) / float64(i-prev)
				vals[j] = a + (b-a)*f
				known[j] = true
				interp[j] = true
			}
		}
		prev = i
	}
	return vals, known, interp
}

func isMinuteTick(points []history.Point, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	if i > 0 && !points[i-1].Time.IsZero() {
		return p.Time.Minute() != points[i-1].Time.Minute()
	}
	return false
}

// RenderSparklinePoints renders a sparkline of the last width points,
// scaled to [lo, hi]. A subtle pipe is drawn at each minute boundary.
// Gaps between present points are bridged with dimmed interpolated
// blocks; gaps at either end render as dashes.
func RenderSparklinePoints(points []history.Point, width int, lo, hi float64, color ColorFunc) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(colorGap)
	if len(points) == 0 {
		return dim.Render(strings.Repeat(gapRune, width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	span := hi - lo
	if span <= 0 {
		span = 1
	}

	vals, known, interp := fill(points)

	var sb strings.Builder
	sb.WriteString(dim.Render(strings.Repeat(gapRune, width-len(points))))

	tickStyle := lipgloss.NewStyle().Foreground(colorTick)

	for i := range points {
		if isMinuteTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}
		if !known[i] {
			sb.WriteString(dim.Render(gapRune))
			continue
		}

		norm := (vals[i] - lo) / span
		norm = math.Max(0, math.Min(1, norm))
		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		style := lipgloss.NewStyle().Foreground(color(vals[i]))
		if interp[i] {
			style = style.Faint(true)
		}
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}

	return sb.String()
}

// RenderTimeline renders the time labels under the sparkline, showing
// HH:MM at each minute tick position.
func RenderTimeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	lastEnd := -1
	for i, p := range points {
		if !isMinuteTick(points, i) {
			continue
		}
		label := p.Time.Format("15:04")
		start := padLen + i - 2
		if start < 0 {
			start = 0
		}
		end := start + len(label)
		if end > width || start <= lastEnd+1 {
			continue
		}
		for j, ch := range label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return lipgloss.NewStyle().Foreground(colorTick).Render(string(line))
}

func position(v, lo, hi float64, width int) int {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	pos := int(math.Round(float64(width-1) * (v - lo) / span))
	if pos < 0 {
		pos = 0
	}
	if pos >= width {
		pos = width - 1
	}
	return pos
}

// RenderRangeBar renders a scale over bounds with the threshold range
// marked and, when ok is set, the current value as a diamond.
func RenderRangeBar(current float64, ok bool, bounds, r sensor.Range, width int) string {
	if width <= 0 {
		return ""
	}

	minPos := position(r.Min, bounds.Min, bounds.Max, width)
	maxPos := position(r.Max, bounds.Min, bounds.Max, width)
	curPos := -1
	if ok {
		curPos = position(current, bounds.Min, bounds.Max, width)
	}

	dot := lipgloss.NewStyle().Foreground(colorGap)
	inside := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mark := lipgloss.NewStyle().Foreground(colorNear)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == curPos:
			style := lipgloss.NewStyle().Foreground(Banded(r)(current)).Bold(true)
			sb.WriteString(style.Render("◆"))
		case i == minPos || i == maxPos:
			sb.WriteString(mark.Render("▪"))
		case i > minPos && i < maxPos:
			sb.WriteString(inside.Render("─"))
		default:
			sb.WriteString(dot.Render("·"))
		}
	}
	return sb.String()
}

// RenderSlider renders a two-handle slider spanning bounds with the
// handles at r.Min and r.Max. active is 0 to highlight the min handle,
// 1 for the max handle and any other value for neither.
func RenderSlider(bounds, r sensor.Range, active int, width int) string {
	if width <= 0 {
		return ""
	}

	minPos := position(r.Min, bounds.Min, bounds.Max, width)
	maxPos := position(r.Max, bounds.Min, bounds.Max, width)

	track := lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	fillS := lipgloss.NewStyle().Foreground(colorOk)
	handleS := func(h int) lipgloss.Style {
		if h == active {
			return lipgloss.NewStyle().Foreground(colorActive).Bold(true)
		}
		return lipgloss.NewStyle().Foreground(colorHandle)
	}

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == maxPos && (i != minPos || active == 1):
			sb.WriteString(handleS(1).Render("●"))
		case i == minPos:
			sb.WriteString(handleS(0).Render("●"))
		case i > minPos && i < maxPos:
			sb.WriteString(fillS.Render("━"))
		default:
			sb.WriteString(track.Render("─"))
		}
	}
	return sb.String()
}

// RenderValue renders a value with its unit, coloured by color. Absent
// values render as a dimmed placeholder of the same width.
func RenderValue(v float64, ok bool, unit string, color ColorFunc) string {
	if !ok {
		return lipgloss.NewStyle().Foreground(colorGap).Render(fmt.Sprintf("%6s%s", "--", unit))
	}
	return lipgloss.NewStyle().Foreground(color(v)).Render(fmt.Sprintf("%6.1f%s", v, unit))
}
