package engine

import (
	"levelup/internal/calendar"
	"levelup/internal/model"
)

// IntensityFuture marks heatmap cells for days after today; they are never
// rendered as completed.
const IntensityFuture = -1

// heatmapDays is the fixed window size: four Monday-aligned weeks.
const heatmapDays = 28

// TodayProgress returns the share of habits completed today as a ratio in
// [0, 100]. An empty collection yields 0, not NaN.
func TodayProgress(habits []model.Habit) float64 {
	return progressOn(habits, calendar.TodayKey())
}

func progressOn(habits []model.Habit, today string) float64 {
	if len(habits) == 0 {
		return 0
	}
	completed := 0
	for _, h := range habits {
		if h.CompletedOn(today) {
			completed++
		}
	}
	return float64(completed) / float64(len(habits)) * 100
}

// Intensity buckets a day's completion ratio for heatmap display:
// IntensityFuture for days after today, 0 when nothing was completed,
// then 1 (<0.4), 2 (<0.8) and 3 (>=0.8).
func Intensity(habits []model.Habit, dayKey string) int {
	return intensityOn(habits, dayKey, calendar.TodayKey())
}

func intensityOn(habits []model.Habit, dayKey, today string) int {
	// ISO day-keys order lexicographically.
	if dayKey > today {
		return IntensityFuture
	}
	if len(habits) == 0 {
		return 0
	}

	completed := 0
	for _, h := range habits {
		if h.CompletedOn(dayKey) {
			completed++
		}
	}
	if completed == 0 {
		return 0
	}

	ratio := float64(completed) / float64(len(habits))
	switch {
	case ratio < 0.4:
		return 1
	case ratio < 0.8:
		return 2
	default:
		return 3
	}
}

// HeatmapWindow returns the 28 day-keys of the heatmap range: the Monday
// of the current week minus 21 days, through the following Sunday. The
// window slides with "today"; it is not a fixed historical range.
func HeatmapWindow() []string {
	return windowFrom(calendar.TodayKey())
}

func windowFrom(today string) []string {
	t, err := calendar.ParseKey(today)
	if err != nil {
		return nil
	}
	// Weekday with Monday as 0.
	mondayIndex := (int(t.Weekday()) + 6) % 7
	start := calendar.KeyOffset(today, -(mondayIndex + 21))

	days := make([]string, heatmapDays)
	for i := range days {
		days[i] = calendar.KeyOffset(start, i)
	}
	return days
}
