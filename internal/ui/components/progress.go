package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/ui/theme"
)

// MilestoneBar renders a horizontal bar showing progress from the current
// score toward the next milestone, with a "current/target" tail.
func MilestoneBar(current, target, width int) string {
	if target <= 0 {
		return ""
	}

	label := lipgloss.NewStyle().Foreground(theme.Text).Render("Next milestone") + "  "
	tail := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", current, target))

	barWidth := width - lipgloss.Width(label) - lipgloss.Width(tail)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := barWidth * current / target
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	bar := lipgloss.NewStyle().
		Background(theme.Secondary).
		Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().
			Background(theme.Border).
			Render(strings.Repeat(" ", barWidth-filled))

	return label + bar + tail
}
