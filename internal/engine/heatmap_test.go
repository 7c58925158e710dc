package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelup/internal/calendar"
	"levelup/internal/model"
)

func habitWith(dates ...string) model.Habit {
	return model.Habit{ID: "h", Name: "h", CompletedDates: dates}
}

func TestProgressOn(t *testing.T) {
	const today = "2026-03-11"

	assert.Equal(t, float64(0), progressOn(nil, today), "no habits must yield 0, not NaN")
	assert.Equal(t, float64(50), progressOn([]model.Habit{
		habitWith(today),
		habitWith(),
	}, today))
	assert.Equal(t, float64(100), progressOn([]model.Habit{
		habitWith(today),
		habitWith("2026-03-10", today),
	}, today))
	assert.Equal(t, float64(0), progressOn([]model.Habit{
		habitWith("2026-03-10"),
	}, today), "completions on other days do not count")
}

func TestIntensityOn(t *testing.T) {
	const today = "2026-03-11"

	t.Run("future days never render as completed", func(t *testing.T) {
		habits := []model.Habit{habitWith("2026-03-12")}
		assert.Equal(t, IntensityFuture, intensityOn(habits, "2026-03-12", today))
		assert.Equal(t, IntensityFuture, intensityOn(nil, "2027-01-01", today))
	})

	t.Run("no habits", func(t *testing.T) {
		assert.Equal(t, 0, intensityOn(nil, today, today))
	})

	t.Run("buckets", func(t *testing.T) {
		day := "2026-03-10"
		five := func(completed int) []model.Habit {
			habits := make([]model.Habit, 5)
			for i := range habits {
				if i < completed {
					habits[i] = habitWith(day)
				} else {
					habits[i] = habitWith()
				}
			}
			return habits
		}

		assert.Equal(t, 0, intensityOn(five(0), day, today))
		assert.Equal(t, 1, intensityOn(five(1), day, today), "1/5 = 0.2 < 0.4")
		assert.Equal(t, 2, intensityOn(five(2), day, today), "2/5 = 0.4 lands in the middle bucket")
		assert.Equal(t, 2, intensityOn(five(3), day, today), "3/5 = 0.6 < 0.8")
		assert.Equal(t, 3, intensityOn(five(4), day, today), "4/5 = 0.8 is the top bucket")
		assert.Equal(t, 3, intensityOn(five(5), day, today))
	})
}

func TestWindowFrom(t *testing.T) {
	// 2026-03-11 is a Wednesday; the window runs from the Monday three
	// weeks before the current week's Monday (2026-03-09).
	days := windowFrom("2026-03-11")
	require.Len(t, days, 28)

	assert.Equal(t, "2026-02-16", days[0])
	assert.Equal(t, "2026-03-15", days[27])
	assert.Contains(t, days, "2026-03-11")

	first, err := calendar.ParseKey(days[0])
	require.NoError(t, err)
	last, err := calendar.ParseKey(days[27])
	require.NoError(t, err)
	assert.Equal(t, "Monday", first.Weekday().String())
	assert.Equal(t, "Sunday", last.Weekday().String())

	for i := 1; i < len(days); i++ {
		assert.Equal(t, 1, calendar.DayDiff(days[i], days[i-1]), "window days must be consecutive")
	}
}

func TestWindowSlidesWithToday(t *testing.T) {
	monday := windowFrom("2026-03-09")
	sunday := windowFrom("2026-03-15")

	// Same week, same window.
	assert.Equal(t, monday, sunday)
	// Next Monday shifts the whole window a week forward.
	next := windowFrom("2026-03-16")
	assert.Equal(t, "2026-02-23", next[0])
}
