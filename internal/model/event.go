package model

// EventType doubles as the MQ routing key for events that leave the process.
type EventType string

const (
	EventHabitAdded      EventType = "habit.added"
	EventHabitToggled    EventType = "habit.toggled"
	EventHabitDeleted    EventType = "habit.deleted"
	EventStreakMilestone EventType = "streak.milestone"
	EventDayCompleted    EventType = "day.completed"
	EventReminderDue     EventType = "habit.reminder.due"
)

// Event is emitted by the habit store (and the reminder poller) for the
// sync reconciler and the notification worker. Habit and Profile carry
// state snapshots taken at emit time so consumers never read live state.
type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	HabitID   string    `json:"habit_id,omitempty"`
	DayKey    string    `json:"day_key,omitempty"`
	Completed bool      `json:"completed,omitempty"` // toggle direction: true = completed, false = undone
	Delta     int       `json:"delta,omitempty"`     // XP delta paired with the toggle
	Streak    int       `json:"streak,omitempty"`
	Habit     *Habit    `json:"habit,omitempty"`
	Profile   *Profile  `json:"profile,omitempty"`
}
