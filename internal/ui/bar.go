package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// ProgressColor returns the bar color for a provisioning percentage.
// Higher values are better: 0-50% blue, 50-80% yellow, 80%+ green.
func ProgressColor(percent int) lipgloss.Color {
	switch {
	case percent >= 80:
		return ColorSuccess
	case percent >= 50:
		return ColorWarning
	default:
		return ColorSecondary
	}
}

// ClampPercent clamps a percentage to the 0-100 range.
func ClampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// RenderBar renders a bracketed progress bar of the given width.
// Percent should be 0-100.
func RenderBar(percent, width int) string {
	if width <= 0 {
		return ""
	}

	percent = ClampPercent(percent)
	filled := (percent * width) / 100
	empty := width - filled

	var sb strings.Builder
	sb.Grow(width + 2)
	sb.WriteRune('[')
	for i := 0; i < filled; i++ {
		sb.WriteRune(BarFilled)
	}
	for i := 0; i < empty; i++ {
		sb.WriteRune(BarEmpty)
	}
	sb.WriteRune(']')

	style := lipgloss.NewStyle().Foreground(ProgressColor(percent))
	return style.Render(sb.String())
}
