package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/styles"
)

const (
	gradientFrom = "#51cf66"
	gradientTo   = "#1a73e8"
)

// ShareBar renders a labelled progress bar for a 0-100 share.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with the footprint gradient.
func NewShareBar() ShareBar {
	return NewShareBarWithWidth(30)
}

// NewShareBarWithWidth creates a share bar with a specific width.
func NewShareBarWithWidth(width int) ShareBar {
	p := progress.New(
		progress.WithScaledGradient(gradientFrom, gradientTo),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return ShareBar{progress: p}
}

// View renders the bar with a label and a right-aligned percentage.
func (s ShareBar) View(percent float64, label string, width int) string {
	s.progress.Width = max(width-30, 10)

	bar := s.progress.ViewAs(clampPercent(percent) / 100)

	percentStr := styles.GetShareStyle(percent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// ViewCompact renders the bar without a label.
func (s ShareBar) ViewCompact(percent float64, width int) string {
	s.progress.Width = max(width-8, 5)

	bar := s.progress.ViewAs(clampPercent(percent) / 100)
	percentStr := styles.GetShareStyle(percent).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// MilestoneProgress returns how far cumulativeMs is between the last and the
// next reminder milestone, as a 0-100 percentage, plus the time left.
func MilestoneProgress(cumulativeMs, stepMs int64) (percent float64, remainingMs int64) {
	if stepMs <= 0 || cumulativeMs < 0 {
		return 0, 0
	}
	into := cumulativeMs % stepMs
	return float64(into) / float64(stepMs) * 100, stepMs - into
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	empty := lipgloss.NewStyle().Foreground(styles.Subtle)
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(interpolateColor(gradientFrom, gradientTo, t)))
			b.WriteString(style.Render("█"))
		} else {
			b.WriteString(empty.Render("░"))
		}
	}

	return b.String()
}

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
