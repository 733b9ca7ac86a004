package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/session"
	"github.com/abhisek/flashmaster/internal/ui/components"
	"github.com/abhisek/flashmaster/internal/ui/layout"
	"github.com/abhisek/flashmaster/internal/ui/theme"
)

func dim() lipgloss.Style { return lipgloss.NewStyle().Foreground(theme.TextDim) }

// renderStatus renders the progress bar and running counters.
func renderStatus(e *session.Engine, width int) string {
	c := e.Counters()
	bar := components.StepProgress(c.Index+1, e.Total(), min(width-30, 40)).View()
	counters := fmt.Sprintf("%s %d  %s %d  streak %d",
		theme.Correct.Render("✓"), c.Correct,
		theme.Incorrect.Render("✗"), c.Wrong,
		c.Streak)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar+"   "+counters)
}

// renderSummary renders a finished session.
func renderSummary(deckName string, r deck.TestResult, width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(deckName+" - Summary", width, theme.Title))
	b.WriteString("\n\n")

	lines := []string{
		fmt.Sprintf("Score: %d%%", r.Score),
		fmt.Sprintf("Correct: %d", r.Correct),
		fmt.Sprintf("Wrong: %d", r.Wrong),
		fmt.Sprintf("Best streak: %d", r.BestStreak),
	}
	card := theme.Card.Width(min(width-8, 40)).Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("[R] Retake   [Enter] Back to deck", width, dim()))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered("End test early?", width, theme.Body.Bold(true)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("Your result so far will be saved.", width, dim()))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("[Y] Yes, end test", width, lipgloss.NewStyle().Foreground(theme.Success)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("[N] No, keep going", width, lipgloss.NewStyle().Foreground(theme.Primary)))
	return b.String()
}

// renderMessage renders a centered one-line message.
func renderMessage(width int, msg string, style lipgloss.Style) string {
	return layout.Centered("\n\n\n"+msg, width, style)
}
