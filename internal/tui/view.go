package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/ui/components"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/ui/theme"
)

// typeLabel names a challenge type for display.
func typeLabel(t game.ChallengeType) string {
	switch t {
	case game.TypeKinToEngProverb:
		return "Translate this Kinyarwanda proverb"
	case game.TypeEngToKinPhrase:
		return "Say it in Kinyarwanda"
	case game.TypeStoryTranslation:
		return "Translate this line of the story"
	case game.TypeThemedTranslation:
		return "Translate this themed word"
	case game.TypeGusakuzaInit:
		return "A riddle is coming"
	case game.TypeGusakuza:
		return "Solve the riddle"
	case game.TypeImageDescription:
		return "Describe the image"
	}
	return string(t)
}

// renderChallenge renders the active challenge and the answer input.
func (m Model) renderChallenge(width int) string {
	ch := m.challenge

	var b strings.Builder

	// Info line.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + typeLabel(ch.Type))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Difficulty %d  %s %d",
			ch.Difficulty,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("✦"),
			m.totalScore,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Challenge text.
	if ch.Type == game.TypeImageDescription {
		b.WriteString(theme.Title.Width(width).Render("Describe what you see"))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Width(width).Render("Image: " + ch.SourceText))
	} else {
		b.WriteString(theme.Title.Width(width).Render(ch.SourceText))
	}
	b.WriteString("\n\n")

	if ch.Context != "" {
		ctxStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.TextDim)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, ctxStyle.Render(ch.Context)))
		b.WriteString("\n\n")
	}

	if m.hint != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Hint: "+m.hint)))
		b.WriteString("\n\n")
	}

	// Input area.
	if ch.Type == game.TypeGusakuzaInit {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render(`Press Enter to reply "Soma!"`))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + m.input.View()))
	}

	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(m.notice))
	}

	if m.score > 0 {
		bar := components.MilestoneBar(m.score%game.ScoreMilestone, game.ScoreMilestone, min(width-8, 50))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar))
	}

	return b.String()
}

// renderFeedback renders the evaluation overlay for the last answer.
func (m Model) renderFeedback(width int) string {
	res := m.result

	var b strings.Builder
	b.WriteString("\n\n")

	switch {
	case res.GameOver:
		b.WriteString(theme.Incorrect.Width(width).Align(lipgloss.Center).Render("Game over!"))
	case res.IsCorrect:
		b.WriteString(theme.Correct.Width(width).Align(lipgloss.Center).Render("Correct!"))
	default:
		b.WriteString(theme.Incorrect.Width(width).Align(lipgloss.Center).Render("Not quite"))
	}
	b.WriteString("\n\n")

	if res.Message != "" {
		msgStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, msgStyle.Render(res.Message)))
		b.WriteString("\n\n")
	}

	if !res.IsCorrect && res.CorrectAnswer != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Correct answer: " + res.CorrectAnswer))
		b.WriteString("\n\n")
	}

	if res.Feedback != "" {
		fbStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Secondary)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, fbStyle.Render(res.Feedback)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Your answer: " + m.input.View()))
	b.WriteString("\n")

	if res.ScoreAwarded > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(fmt.Sprintf("+%d points  (total %d)", res.ScoreAwarded, res.NewTotalScore)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	next := "Press any key for the next challenge..."
	if res.GameOver {
		next = "Press any key to start over..."
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(next))

	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave the game?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your score is saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep playing"))

	return b.String()
}

// renderLoading renders the waiting state while a challenge is produced.
func renderLoading(width int, spin string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n%s Preparing a challenge...", spin))
}

// renderError renders a fatal error.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\nError: %s\n\nPress any key to exit.", errMsg))
}
