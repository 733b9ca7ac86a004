package history

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/progress"
	"github.com/abhisek/flashmaster/internal/router"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/ui/layout"
	"github.com/abhisek/flashmaster/internal/ui/theme"
)

const cellWidth = 4

var weekdays = []string{"S", "M", "T", "W", "T", "F", "S"}

// StateSource provides the current app state.
type StateSource interface {
	State() deck.AppState
}

// HistoryScreen shows a month calendar of tests with the results of the
// selected day.
type HistoryScreen struct {
	src StateSource
	loc *time.Location

	year     int
	month    time.Month
	selected time.Time
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen opened on the month of now, with today
// selected.
func New(src StateSource, now time.Time) *HistoryScreen {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return &HistoryScreen{
		src:      src,
		loc:      loc,
		year:     today.Year(),
		month:    today.Month(),
		selected: today,
	}
}

func (s *HistoryScreen) Init() tea.Cmd { return nil }

func (s *HistoryScreen) Title() string { return "Progress" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→↑↓", Description: "Day"},
		{Key: "[ ]", Description: "Month"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "left", "h":
		s.moveDays(-1)
	case "right", "l":
		s.moveDays(1)
	case "up", "k":
		s.moveDays(-7)
	case "down", "j":
		s.moveDays(7)
	case "[", "pgup":
		s.changeMonth(-1)
	case "]", "pgdown":
		s.changeMonth(1)
	}
	return s, nil
}

func (s *HistoryScreen) moveDays(n int) {
	s.selected = s.selected.AddDate(0, 0, n)
	s.year, s.month = s.selected.Year(), s.selected.Month()
}

// changeMonth moves the view delta months and selects its first day.
func (s *HistoryScreen) changeMonth(delta int) {
	s.year, s.month = progress.Shift(s.year, s.month, delta)
	s.selected = time.Date(s.year, s.month, 1, 0, 0, 0, 0, s.loc)
}

// SelectedDay returns the selected day as YYYY-MM-DD.
func (s *HistoryScreen) SelectedDay() string {
	return s.selected.Format(progress.DateLayout)
}

func (s *HistoryScreen) View(width, height int) string {
	st := s.src.State()
	m := progress.BuildMonth(s.year, s.month, st.TestHistory, s.loc)
	sel := s.SelectedDay()

	var cal strings.Builder
	cal.WriteString(theme.Title.Width(7 * cellWidth).Render("< " + m.Title() + " >"))
	cal.WriteString("\n")
	for _, wd := range weekdays {
		cal.WriteString(theme.Weekday.Width(cellWidth).Align(lipgloss.Center).Render(wd))
	}
	cal.WriteString("\n")
	for _, week := range m.Weeks {
		for _, c := range week {
			cal.WriteString(renderCell(c, sel))
		}
		cal.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, cal.String()))
	b.WriteString("\n")
	b.WriteString(layout.Centered(fmt.Sprintf("Results (%s)", s.selected.Format("Mon Jan 02 2006")), width, theme.Body.Bold(true)))
	b.WriteString("\n")

	results := progress.ResultsOn(st.TestHistory, sel, s.loc)
	if len(results) == 0 {
		b.WriteString(layout.Centered("No tests on this date.", width, theme.Hint))
		return b.String()
	}
	for _, r := range results {
		b.WriteString(layout.Centered(ResultLine(st, r, s.loc), width, theme.Body))
		b.WriteString("\n")
	}
	return b.String()
}

// ResultLine formats one result as "15:04  Deck  Score 80% • Streak 3".
// Results whose deck was deleted keep their line with a placeholder name.
func ResultLine(st deck.AppState, r deck.TestResult, loc *time.Location) string {
	name := "(deleted deck)"
	if d, ok := st.FindDeck(r.DeckID); ok {
		name = d.Name
	}
	return fmt.Sprintf("%s  %s  Score %d%% • Streak %d",
		r.EndedAt.Time().In(loc).Format("15:04"), name, r.Score, r.BestStreak)
}

func renderCell(c progress.Cell, selected string) string {
	if c.Empty() {
		return strings.Repeat(" ", cellWidth)
	}
	label := fmt.Sprint(c.Day)
	if c.Tests > 0 {
		label += "•"
	}
	style := theme.DayPlain
	switch {
	case c.Date == selected:
		style = theme.DaySelected
	case c.Tests > 0:
		style = theme.DayActive
	}
	return style.Width(cellWidth).Align(lipgloss.Center).Render(label)
}
