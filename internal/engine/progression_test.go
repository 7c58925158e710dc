package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"levelup/internal/model"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{10, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{200, 3},
		{350, 4},
		{-50, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestApplyDelta(t *testing.T) {
	p := model.Profile{UserID: "u", XP: 95, Level: 1}

	p = ApplyDelta(p, XPPerCompletion)
	assert.Equal(t, 105, p.XP)
	assert.Equal(t, 2, p.Level, "crossing 100 XP levels up in the same step")

	p = ApplyDelta(p, -XPPerCompletion)
	assert.Equal(t, 95, p.XP)
	assert.Equal(t, 1, p.Level, "undo drops the level back down")
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	p := ApplyDelta(model.Profile{XP: 5}, -XPPerCompletion)
	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 1, p.Level)

	// Once clamped, a credit resumes from zero rather than from debt.
	p = ApplyDelta(p, XPPerCompletion)
	assert.Equal(t, 10, p.XP)
}
