package model

// Habit is a recurring daily quest. CompletedDates holds day-keys
// (YYYY-MM-DD); a key appears at most once per habit.
type Habit struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Icon           string   `json:"icon"`
	ReminderTime   string   `json:"reminder_time,omitempty"` // "HH:MM", empty when no reminder is set
	CompletedDates []string `json:"completed_dates"`
}

// CompletedOn reports whether the habit was completed on the given day-key.
func (h Habit) CompletedOn(dayKey string) bool {
	for _, d := range h.CompletedDates {
		if d == dayKey {
			return true
		}
	}
	return false
}

// Clone returns a copy with its own completion slice, safe to hand out
// across goroutine boundaries.
func (h Habit) Clone() Habit {
	out := h
	out.CompletedDates = make([]string, len(h.CompletedDates))
	copy(out.CompletedDates, h.CompletedDates)
	return out
}
