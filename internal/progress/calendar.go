// Package progress aggregates test history into calendar views.
package progress

import (
	"fmt"
	"time"

	"github.com/abhisek/flashmaster/internal/deck"
)

// DateLayout is the layout of day keys.
const DateLayout = "2006-01-02"

// MonthLayout is the layout accepted by ParseMonth.
const MonthLayout = "2006-01"

// GridWeeks is the number of rows in a month grid. Six rows fit every month
// regardless of the weekday it starts on.
const GridWeeks = 6

// DayKey returns the local calendar day of m in loc.
func DayKey(m deck.Millis, loc *time.Location) string {
	return m.Time().In(loc).Format(DateLayout)
}

// GroupByDay buckets history by local calendar day. Results keep their
// history order (most recent first) within a day.
func GroupByDay(history []deck.TestResult, loc *time.Location) map[string][]deck.TestResult {
	days := make(map[string][]deck.TestResult)
	for _, r := range history {
		k := DayKey(r.EndedAt, loc)
		days[k] = append(days[k], r)
	}
	return days
}

// ResultsOn returns the results that ended on the given local day.
func ResultsOn(history []deck.TestResult, day string, loc *time.Location) []deck.TestResult {
	var out []deck.TestResult
	for _, r := range history {
		if DayKey(r.EndedAt, loc) == day {
			out = append(out, r)
		}
	}
	return out
}

// Cell is one slot in a month grid. Day is zero for padding cells.
type Cell struct {
	Day   int
	Date  string
	Tests int
}

// Empty reports whether the cell lies outside the month.
func (c Cell) Empty() bool { return c.Day == 0 }

// Month is a Sunday-first calendar grid.
type Month struct {
	Year  int
	Month time.Month
	Weeks [GridWeeks][7]Cell
}

// Title renders the month heading, e.g. "March 2024".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// ActiveDays returns the dates in the month that have at least one test.
func (m Month) ActiveDays() []string {
	var out []string
	for _, w := range m.Weeks {
		for _, c := range w {
			if c.Tests > 0 {
				out = append(out, c.Date)
			}
		}
	}
	return out
}

// BuildMonth lays out the given month with empty cells before day 1 and
// marks days that have tests.
func BuildMonth(year int, month time.Month, history []deck.TestResult, loc *time.Location) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysIn := first.AddDate(0, 1, -1).Day()
	start := int(first.Weekday())

	counts := make(map[string]int)
	for k, rs := range GroupByDay(history, loc) {
		counts[k] = len(rs)
	}

	m := Month{Year: first.Year(), Month: first.Month()}
	day := 1
	for w := range GridWeeks {
		for d := range 7 {
			if w*7+d < start || day > daysIn {
				continue
			}
			date := time.Date(year, month, day, 0, 0, 0, 0, loc).Format(DateLayout)
			m.Weeks[w][d] = Cell{Day: day, Date: date, Tests: counts[date]}
			day++
		}
	}
	return m
}

// Shift returns the year and month delta months away.
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// ParseDay validates a YYYY-MM-DD string and returns it normalized.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", s, err)
	}
	return t.Format(DateLayout), nil
}
