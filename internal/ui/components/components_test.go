package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"
)

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Loading")
	if s.Label() != "Loading" {
		t.Errorf("Label = %s, want Loading", s.Label())
	}
	if s.View() == "" {
		t.Error("View returned empty")
	}
	if !strings.Contains(s.ViewWithLabel(), "Loading") {
		t.Error("ViewWithLabel should include the label")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}
	if _, cmd := s.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update should return command for tick")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	view := RenderSpinnerCentered(NewSpinner("Loading..."), 20, 5)
	if lines := strings.Split(view, "\n"); len(lines) != 5 {
		t.Errorf("height = %d, want 5", len(lines))
	}
}

func TestRenderLineChart(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want string
	}{
		{"empty", nil, "No data available"},
		{"single point", []float64{3}, "minutes"},
		{"series", []float64{1, 2, 3, 4}, "minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderLineChart(tt.data, 20, 5, "minutes")
			if !strings.Contains(got, tt.want) {
				t.Errorf("chart missing %q:\n%s", tt.want, got)
			}
		})
	}
}

func TestRenderBarChart(t *testing.T) {
	if RenderBarChart(nil, nil, 40, nil) != "" {
		t.Error("empty input should render nothing")
	}

	got := ansi.Strip(RenderBarChart([]float64{10, 5}, []string{"Claude", "Poe"}, 40, func(v float64) string {
		return strings.Repeat("x", int(v)/5)
	}))
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[1], "   Poe │") {
		t.Errorf("labels should be right-aligned, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[0], " xx") {
		t.Errorf("format not applied: %q", lines[0])
	}
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Error("larger value should draw a longer bar")
	}
}

func TestRenderSparkline(t *testing.T) {
	if RenderSparkline(nil, 10) != "" {
		t.Error("empty input should render nothing")
	}
	if got := RenderSparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8); got != "▁▂▃▄▅▆▇█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := []rune(RenderSparkline([]float64{1, 2, 3, 4, 5}, 3)); len(got) != 3 {
		t.Errorf("width not respected: %d runes", len(got))
	}
}

func TestShareBar_View(t *testing.T) {
	bar := NewShareBar()
	view := ansi.Strip(bar.View(42, "Claude", 60))
	if !strings.Contains(view, "Claude") || !strings.Contains(view, "42%") {
		t.Errorf("View missing label or percent: %q", view)
	}

	compact := ansi.Strip(NewShareBarWithWidth(10).ViewCompact(150, 20))
	if !strings.Contains(compact, "150%") {
		t.Errorf("ViewCompact should show the raw percent: %q", compact)
	}
}

func TestMilestoneProgress(t *testing.T) {
	tests := []struct {
		name          string
		cum, step     int64
		wantPercent   float64
		wantRemaining int64
	}{
		{"zero", 0, 1_800_000, 0, 1_800_000},
		{"halfway", 900_000, 1_800_000, 50, 900_000},
		{"past first", 2_250_000, 1_800_000, 25, 1_350_000},
		{"no step", 5000, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, r := MilestoneProgress(tt.cum, tt.step)
			if p != tt.wantPercent || r != tt.wantRemaining {
				t.Errorf("MilestoneProgress = (%v, %d), want (%v, %d)", p, r, tt.wantPercent, tt.wantRemaining)
			}
		})
	}
}

func TestRenderGradientBar(t *testing.T) {
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}
	got := ansi.Strip(RenderGradientBar(50, 10))
	if strings.Count(got, "█") != 5 || strings.Count(got, "░") != 5 {
		t.Errorf("bar = %q, want 5 filled and 5 empty", got)
	}
}

func TestInterpolateColor(t *testing.T) {
	if got := interpolateColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("t=0: %s", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("t=1: %s", got)
	}
	if got := hexToRGB("zz"); got != [3]int{} {
		t.Errorf("invalid hex should be black, got %v", got)
	}
}
