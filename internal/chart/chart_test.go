package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/airguard/internal/history"
	"github.com/luki/airguard/internal/sensor"
)

func TestSparkline(t *testing.T) {
	var pts []history.Point
	for _, v := range []float64{30, 35, 40, 50, 60, 70, 80, 90, 100} {
		pts = append(pts, history.Point{Value: v})
	}
	result := RenderSparklinePoints(pts, 20, 20, 110, Solid(lipgloss.Color("#8884d8")))
	if got := lipgloss.Width(result); got != 20 {
		t.Errorf("width: got %d, want 20", got)
	}
	t.Logf("Sparkline: %s", result)
}

func TestSparklineMinuteTicks(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 50, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Value: float64(40 + i%5),
			Time:  base.Add(time.Duration(i) * time.Second),
		})
	}

	result := RenderSparklinePoints(pts, 20, 30, 55, Banded(sensor.Range{Min: 35, Max: 50}))
	if !strings.Contains(result, "│") {
		t.Error("expected minute tick mark in sparkline")
	}

	timeline := RenderTimeline(pts, 20)
	if !strings.Contains(timeline, "14:01") {
		t.Errorf("expected 14:01 label in timeline, got %q", timeline)
	}
}

func TestSparklineMissingPoints(t *testing.T) {
	bridged := []history.Point{{Value: 10}, {Missing: true}, {Value: 30}}
	if got := RenderSparklinePoints(bridged, 3, 0, 40, Solid(colorOk)); strings.Contains(got, gapRune) {
		t.Errorf("interior gap should be interpolated, got %q", got)
	}

	leading := []history.Point{{Missing: true}, {Value: 10}, {Value: 20}}
	if got := RenderSparklinePoints(leading, 3, 0, 40, Solid(colorOk)); !strings.Contains(got, gapRune) {
		t.Errorf("leading gap should render as a gap, got %q", got)
	}

	trailing := []history.Point{{Value: 10}, {Value: 20}, {Missing: true}}
	if got := RenderSparklinePoints(trailing, 3, 0, 40, Solid(colorOk)); !strings.Contains(got, gapRune) {
		t.Errorf("trailing gap should render as a gap, got %q", got)
	}
}

func TestFillInterpolates(t *testing.T) {
	pts := []history.Point{{Missing: true}, {Value: 10}, {Missing: true}, {Missing: true}, {Value: 40}, {Missing: true}}
	vals, known, interp := fill(pts)

	wantKnown := []bool{false, true, true, true, true, false}
	wantInterp := []bool{false, false, true, true, false, false}
	for i := range pts {
		if known[i] != wantKnown[i] || interp[i] != wantInterp[i] {
			t.Errorf("point %d: known=%v interp=%v, want %v %v", i, known[i], interp[i], wantKnown[i], wantInterp[i])
		}
	}
	if vals[2] != 20 || vals[3] != 30 {
		t.Errorf("interpolated values: got %v %v, want 20 30", vals[2], vals[3])
	}
}

func TestBanded(t *testing.T) {
	color := Banded(sensor.Range{Min: 10, Max: 30})
	tests := []struct {
		v    float64
		want lipgloss.Color
	}{
		{5, colorBelow},
		{9.99, colorBelow},
		{10, colorNear},
		{10.5, colorNear},
		{20, colorOk},
		{29.5, colorNear},
		{30, colorNear},
		{30.01, colorAbove},
		{31, colorAbove},
	}
	for _, tt := range tests {
		if got := color(tt.v); got != tt.want {
			t.Errorf("Banded(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSpan(t *testing.T) {
	lo, hi := Span(20, 25, 5)
	if lo != 15 || hi != 30 {
		t.Errorf("Span: got [%v,%v], want [15,30]", lo, hi)
	}
	lo, hi = Span(2, 25, 5, 40)
	if lo != 0 || hi != 45 {
		t.Errorf("Span with extra: got [%v,%v], want [0,45]", lo, hi)
	}
}

func TestRenderSlider(t *testing.T) {
	bounds := sensor.Range{Min: 0, Max: 100}
	got := RenderSlider(bounds, sensor.Range{Min: 20, Max: 80}, 0, 11)
	if lipgloss.Width(got) != 11 {
		t.Errorf("width: got %d, want 11", lipgloss.Width(got))
	}
	if n := strings.Count(got, "●"); n != 2 {
		t.Errorf("expected two handles, got %d in %q", n, got)
	}

	// handles at the same position collapse into one
	got = RenderSlider(bounds, sensor.Range{Min: 50, Max: 50}, 1, 11)
	if n := strings.Count(got, "●"); n != 1 {
		t.Errorf("expected one handle, got %d in %q", n, got)
	}
}

func TestRenderRangeBar(t *testing.T) {
	bounds := sensor.Range{Min: 0, Max: 40}
	r := sensor.Range{Min: 18, Max: 26}
	if got := RenderRangeBar(22, true, bounds, r, 20); !strings.Contains(got, "◆") {
		t.Errorf("expected current marker, got %q", got)
	}
	if got := RenderRangeBar(0, false, bounds, r, 20); strings.Contains(got, "◆") {
		t.Errorf("unexpected current marker, got %q", got)
	}
}

func TestRenderValue(t *testing.T) {
	if got := RenderValue(21.5, true, "°C", Solid(colorOk)); !strings.Contains(got, "21.5°C") {
		t.Errorf("RenderValue: got %q", got)
	}
	if got := RenderValue(0, false, "%", Solid(colorOk)); !strings.Contains(got, "--%") {
		t.Errorf("RenderValue missing: got %q", got)
	}
}
