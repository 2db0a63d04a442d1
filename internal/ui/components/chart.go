// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/ai-footprint-tui/internal/ui/styles"
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	// A single point cannot be plotted as a line.
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Blue),
		asciigraph.Caption(caption),
	)
}

// RenderBarChart creates a simple horizontal bar chart. format renders each value.
func RenderBarChart(values []float64, labels []string, width int, format func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.1f", v) }
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)
	barStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		paddedLabel := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label
		barLen := max(int((v/maxVal)*float64(barWidth)), 0)

		bar := barStyle.Render(strings.Repeat("█", barLen))
		lines = append(lines, paddedLabel+" │"+bar+" "+format(v))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	span := maxVal - minVal
	if span == 0 {
		span = 1
	}

	// Keep the most recent samples when there are more than fit.
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var result strings.Builder
	for _, v := range values {
		idx := int(math.Round(((v - minVal) / span) * float64(len(sparkChars)-1)))
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}
