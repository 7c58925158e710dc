package model

// Profile is the user's progression record. Level is always derived from
// XP (floor(xp/100)+1) and must be recomputed whenever XP changes.
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
}
