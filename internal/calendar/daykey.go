// Package calendar provides day-key arithmetic. A day-key is a calendar
// date formatted as YYYY-MM-DD with no time or timezone component; "today"
// is always evaluated in local time at the moment of the call.
package calendar

import "time"

const (
	// KeyLayout is the day-key format.
	KeyLayout = "2006-01-02"
	// MinuteLayout is the hour:minute format used for reminder times.
	MinuteLayout = "15:04"
)

// TodayKey returns the day-key for the current moment in local time.
func TodayKey() string {
	return Key(time.Now())
}

// Key formats a moment as a day-key in its own location.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// MinuteKey formats a moment as hour:minute, truncated to the minute.
func MinuteKey(t time.Time) string {
	return t.Format(MinuteLayout)
}

// ParseKey parses a day-key into a UTC midnight timestamp.
func ParseKey(key string) (time.Time, error) {
	return time.Parse(KeyLayout, key)
}

// KeyOffset shifts a day-key by delta calendar days. Negative deltas go
// into the past. An unparsable key yields an empty string.
func KeyOffset(key string, delta int) string {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, delta).Format(KeyLayout)
}

// DayDiff returns the signed number of calendar days between two day-keys
// (a - b). Unparsable keys yield 0.
func DayDiff(a, b string) int {
	ta, err := time.Parse(KeyLayout, a)
	if err != nil {
		return 0
	}
	tb, err := time.Parse(KeyLayout, b)
	if err != nil {
		return 0
	}
	// Both timestamps are UTC midnights, so the difference is an exact
	// multiple of 24h regardless of DST in the caller's zone.
	return int(ta.Sub(tb).Hours() / 24)
}
