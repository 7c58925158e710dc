package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFormatsLocalDate(t *testing.T) {
	moment := time.Date(2026, time.March, 11, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2026-03-11", Key(moment))
}

func TestTodayKeyMatchesNow(t *testing.T) {
	assert.Equal(t, time.Now().Format(KeyLayout), TodayKey())
}

func TestMinuteKeyTruncates(t *testing.T) {
	moment := time.Date(2026, time.March, 11, 7, 5, 59, 0, time.UTC)
	assert.Equal(t, "07:05", MinuteKey(moment))
}

func TestKeyOffset(t *testing.T) {
	tests := []struct {
		key   string
		delta int
		want  string
	}{
		{"2026-03-11", 0, "2026-03-11"},
		{"2026-03-11", 1, "2026-03-12"},
		{"2026-03-11", -1, "2026-03-10"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-03-11", -28, "2026-02-11"},
		{"not-a-date", 1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyOffset(tt.key, tt.delta), "KeyOffset(%q, %d)", tt.key, tt.delta)
	}
}

func TestDayDiff(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2026-03-11", "2026-03-11", 0},
		{"2026-03-12", "2026-03-11", 1},
		{"2026-03-11", "2026-03-12", -1},
		{"2026-03-01", "2026-02-01", 28},
		{"2027-01-01", "2026-12-31", 1},
		{"2026-03-11", "garbage", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayDiff(tt.a, tt.b), "DayDiff(%q, %q)", tt.a, tt.b)
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	parsed, err := ParseKey("2026-03-11")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", parsed.Format(KeyLayout))

	_, err = ParseKey("11/03/2026")
	assert.Error(t, err)
}
