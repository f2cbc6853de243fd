package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqro/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent int
	Count   int
	Total   int
	Width   int
}

// NewProgressBar creates a bar for count of total, labelled with the
// rounded percentage.
func NewProgressBar(label string, count, total, percent, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Count:   count,
		Total:   total,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	suffix := fmt.Sprintf("  %3d%%  %d/%d", p.Percent, p.Count, p.Total)
	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(suffix), 4)

	filled := 0
	if p.Total > 0 {
		filled = barWidth * p.Count / p.Total
	}
	filled = min(max(filled, 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)

	return result
}
