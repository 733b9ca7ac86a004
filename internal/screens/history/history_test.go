package history

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashmaster/internal/deck"
)

type fixedState deck.AppState

func (f fixedState) State() deck.AppState { return deck.AppState(f) }

func testState() fixedState {
	at := deck.FromTime(time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC))
	return fixedState{
		Decks: []deck.Deck{{ID: "d1", Name: "Spanish"}},
		TestHistory: []deck.TestResult{
			{ID: "r1", DeckID: "d1", Score: 80, BestStreak: 3, EndedAt: at},
			{ID: "r2", DeckID: "gone", Score: 40, BestStreak: 1, EndedAt: at},
		},
	}
}

func TestHistoryScreen_Title(t *testing.T) {
	s := New(testState(), time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	if s.Title() != "Progress" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestHistoryScreen_ShowsSelectedDayResults(t *testing.T) {
	s := New(testState(), time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	view := s.View(80, 30)
	for _, want := range []string{"March 2024", "Spanish", "Score 80%", "Streak 3", "(deleted deck)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_EmptyDay(t *testing.T) {
	s := New(testState(), time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC))
	if !strings.Contains(s.View(80, 30), "No tests on this date.") {
		t.Error("expected empty-day message")
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := New(testState(), time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC))

	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.SelectedDay() != "2024-04-01" || s.month != time.April {
		t.Fatalf("after right: %s month=%v", s.SelectedDay(), s.month)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.SelectedDay() != "2024-03-25" {
		t.Fatalf("after up: %s", s.SelectedDay())
	}

	s.Update(tea.KeyPressMsg{Code: '[', Text: "["})
	if s.SelectedDay() != "2024-02-01" {
		t.Fatalf("after [: %s", s.SelectedDay())
	}

	s.Update(tea.KeyPressMsg{Code: ']', Text: "]"})
	s.Update(tea.KeyPressMsg{Code: ']', Text: "]"})
	if s.SelectedDay() != "2024-04-01" {
		t.Fatalf("after ]]: %s", s.SelectedDay())
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := New(testState(), time.Now())
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd == nil {
		t.Error("expected pop command")
	}
}
