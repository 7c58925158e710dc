package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"levelup/internal/calendar"
)

func TestStreakOn(t *testing.T) {
	const today = "2026-03-11"

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty set", nil, 0},
		{"single completion today", []string{"2026-03-11"}, 1},
		{"single completion yesterday", []string{"2026-03-10"}, 1},
		{"latest older than yesterday breaks the chain", []string{"2026-03-09", "2026-03-08", "2026-03-07"}, 0},
		{"three day run ending today", []string{"2026-03-11", "2026-03-10", "2026-03-09"}, 3},
		{"gap terminates the run", []string{"2026-03-11", "2026-03-09"}, 1},
		{"run ending yesterday", []string{"2026-03-10", "2026-03-09"}, 2},
		{"unordered input", []string{"2026-03-09", "2026-03-11", "2026-03-10"}, 3},
		{"long history behind a gap", []string{"2026-03-11", "2026-03-10", "2026-03-07", "2026-03-06", "2026-03-05"}, 2},
		{"month boundary", []string{"2026-03-11", "2026-03-10", "2026-03-09", "2026-03-08", "2026-03-07", "2026-03-06", "2026-03-05", "2026-03-04", "2026-03-03", "2026-03-02", "2026-03-01", "2026-02-28"}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streakOn(tt.dates, today))
		})
	}
}

func TestCurrentStreakUsesLocalToday(t *testing.T) {
	today := calendar.TodayKey()
	yesterday := calendar.KeyOffset(today, -1)
	dayBefore := calendar.KeyOffset(today, -2)

	assert.Equal(t, 0, CurrentStreak(nil))
	assert.Equal(t, 1, CurrentStreak([]string{today}))
	assert.Equal(t, 3, CurrentStreak([]string{today, yesterday, dayBefore}))
	assert.Equal(t, 1, CurrentStreak([]string{today, dayBefore}))
	// Completions on day-2 and day-1 but not today still count: the run
	// ends at yesterday.
	assert.Equal(t, 2, CurrentStreak([]string{yesterday, dayBefore}))
	// Only day-3 and older: broken.
	assert.Equal(t, 0, CurrentStreak([]string{calendar.KeyOffset(today, -3), calendar.KeyOffset(today, -4)}))
}
