package engine

import (
	"sort"

	"levelup/internal/calendar"
)

// CurrentStreak returns the length of the contiguous completion run ending
// at today or yesterday. A streak whose most recent entry is older than
// yesterday is broken and counts as 0 no matter how long the historical
// run was.
func CurrentStreak(completedDates []string) int {
	return streakOn(completedDates, calendar.TodayKey())
}

func streakOn(dates []string, today string) int {
	if len(dates) == 0 {
		return 0
	}

	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	yesterday := calendar.KeyOffset(today, -1)
	if sorted[0] != today && sorted[0] != yesterday {
		return 0
	}

	streak := 1
	for i := 1; i < len(sorted); i++ {
		if calendar.DayDiff(sorted[i-1], sorted[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}
