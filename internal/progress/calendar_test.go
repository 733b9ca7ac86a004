package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashmaster/internal/deck"
)

func result(id string, at time.Time) deck.TestResult {
	return deck.TestResult{ID: id, DeckID: "d", Score: 50, Total: 2, EndedAt: deck.FromTime(at)}
}

func TestGroupByDay_UsesLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	// 02:00 UTC on the 2nd is still the 1st five hours west.
	late := result("a", time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC))
	noon := result("b", time.Date(2024, 3, 1, 12, 0, 0, 0, loc))
	next := result("c", time.Date(2024, 3, 2, 12, 0, 0, 0, loc))

	days := GroupByDay([]deck.TestResult{late, noon, next}, loc)
	require.Len(t, days, 2)
	assert.Equal(t, []string{"a", "b"}, ids(days["2024-03-01"]))
	assert.Equal(t, []string{"c"}, ids(days["2024-03-02"]))

	utc := GroupByDay([]deck.TestResult{late}, time.UTC)
	assert.Contains(t, utc, "2024-03-02")
}

func TestBuildMonth_SundayFirstGrid(t *testing.T) {
	// March 2024 starts on a Friday and has 31 days.
	history := []deck.TestResult{
		result("a", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)),
		result("b", time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)),
		result("c", time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)),
	}
	m := BuildMonth(2024, time.March, history, time.UTC)

	assert.Equal(t, "March 2024", m.Title())
	for d := range 5 {
		assert.True(t, m.Weeks[0][d].Empty(), "cell %d before day 1 should be empty", d)
	}
	assert.Equal(t, 1, m.Weeks[0][5].Day)
	assert.Equal(t, "2024-03-01", m.Weeks[0][5].Date)
	assert.Equal(t, 2, m.Weeks[0][6].Day)

	// 15th: 5 padding cells + 14 => index 19 => week 2, Friday.
	cell := m.Weeks[2][5]
	assert.Equal(t, 15, cell.Day)
	assert.Equal(t, 2, cell.Tests)
	assert.Equal(t, []string{"2024-03-15"}, m.ActiveDays())

	// 31st: index 35 => week 5, Sunday; the rest of the row is padding.
	assert.Equal(t, 31, m.Weeks[5][0].Day)
	assert.True(t, m.Weeks[5][1].Empty())

	days := 0
	for _, w := range m.Weeks {
		for _, c := range w {
			if !c.Empty() {
				days++
			}
		}
	}
	assert.Equal(t, 31, days)
}

func TestBuildMonth_StartsOnSunday(t *testing.T) {
	// September 2024 starts on a Sunday.
	m := BuildMonth(2024, time.September, nil, time.UTC)
	assert.Equal(t, 1, m.Weeks[0][0].Day)
	assert.Empty(t, m.ActiveDays())
}

func TestBuildMonth_LeapFebruary(t *testing.T) {
	m := BuildMonth(2024, time.February, nil, time.UTC)
	last := 0
	for _, w := range m.Weeks {
		for _, c := range w {
			last = max(last, c.Day)
		}
	}
	assert.Equal(t, 29, last)
}

func TestResultsOn(t *testing.T) {
	history := []deck.TestResult{
		result("new", time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)),
		result("other", time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)),
		result("old", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, []string{"new", "old"}, ids(ResultsOn(history, "2024-03-15", time.UTC)))
	assert.Empty(t, ResultsOn(history, "2024-03-16", time.UTC))
}

func TestShift(t *testing.T) {
	y, m := Shift(2024, time.January, -1)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.December, m)

	y, m = Shift(2024, time.December, 1)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, m)
}

func TestParse(t *testing.T) {
	y, m, err := ParseMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.March, m)

	_, _, err = ParseMonth("March")
	assert.Error(t, err)

	d, err := ParseDay("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d)

	_, err = ParseDay("2024-02-30")
	assert.Error(t, err)
}

func ids(rs []deck.TestResult) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
