package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	body := []byte(`{
		"version": 1,
		"habits": [
			{"id": "h1", "name": "Read 20 mins", "icon": "📚", "reminder_time": "21:00", "completed_dates": ["2026-03-10", "2026-03-11"]},
			{"id": "h2", "name": "Drink Water", "icon": "💧", "completed_dates": []}
		],
		"profile": {"user_id": "u1", "name": "Tester", "xp": 130, "level": 2},
		"saved_at": "2026-03-11T08:00:00Z"
	}`)

	habits, profile, ok := decodeSnapshot(body)
	require.True(t, ok)
	require.Len(t, habits, 2)
	assert.Equal(t, "h1", habits[0].ID)
	assert.Equal(t, []string{"2026-03-10", "2026-03-11"}, habits[0].CompletedDates)
	assert.Empty(t, habits[1].CompletedDates)
	assert.Equal(t, 130, profile.XP)
}

func TestDecodeSnapshotRejectsUnknownVersion(t *testing.T) {
	body := []byte(`{"version": 2, "habits": [], "profile": {"user_id": "u1"}}`)

	habits, _, ok := decodeSnapshot(body)
	assert.False(t, ok, "a newer schema must be discarded, not guessed at")
	assert.Nil(t, habits)
}

func TestDecodeSnapshotRejectsMalformedBody(t *testing.T) {
	_, _, ok := decodeSnapshot([]byte(`{"version": 1, "habits":`))
	assert.False(t, ok)
}

func TestDecodeSnapshotResetsLegacyCompletionShapes(t *testing.T) {
	// completed_dates written by older clients as an object, a scalar, or
	// null resets that habit's history instead of failing the load.
	body := []byte(`{
		"version": 1,
		"habits": [
			{"id": "h1", "name": "Object", "completed_dates": {"2026-03-10": true}},
			{"id": "h2", "name": "Scalar", "completed_dates": 3},
			{"id": "h3", "name": "Null", "completed_dates": null},
			{"id": "h4", "name": "Missing"},
			{"id": "h5", "name": "Fine", "completed_dates": ["2026-03-09"]}
		],
		"profile": {"user_id": "u1"}
	}`)

	habits, _, ok := decodeSnapshot(body)
	require.True(t, ok)
	require.Len(t, habits, 5)
	for _, h := range habits[:4] {
		assert.NotNil(t, h.CompletedDates, "habit %s", h.ID)
		assert.Empty(t, h.CompletedDates, "habit %s", h.ID)
	}
	assert.Equal(t, []string{"2026-03-09"}, habits[4].CompletedDates)
}
