package engine

import "levelup/internal/model"

// XPPerCompletion is the experience delta for one completion toggle;
// undoing a completion subtracts the same amount.
const XPPerCompletion = 10

const xpPerLevel = 100

// streakMilestones are the streak lengths that trigger a celebration event.
var streakMilestones = map[int]bool{3: true, 7: true, 30: true, 365: true}

// LevelForXP derives the level from a total XP count: floor(xp/100)+1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

// ApplyDelta credits or debits experience. XP is clamped at zero so that
// undoing more toggles than were completed can never drive it negative,
// and the level is recomputed from the new total in the same step.
func ApplyDelta(p model.Profile, delta int) model.Profile {
	xp := p.XP + delta
	if xp < 0 {
		xp = 0
	}
	p.XP = xp
	p.Level = LevelForXP(xp)
	return p
}
