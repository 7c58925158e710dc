package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"levelup/internal/calendar"
	"levelup/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(model.Profile{UserID: "u1", Name: "Tester"}, 128, zap.NewNop())
	t.Cleanup(s.Close)
	return s
}

func drainEvents(s *Store) []model.Event {
	var out []model.Event
	for {
		select {
		case ev := <-s.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestAddHabit(t *testing.T) {
	s := newTestStore(t)

	h, err := s.AddHabit("  Read 20 mins  ", "📚", "21:00")
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "Read 20 mins", h.Name, "name is trimmed")
	assert.Equal(t, "📚", h.Icon)
	assert.Equal(t, "21:00", h.ReminderTime)
	assert.NotNil(t, h.CompletedDates)
	assert.Empty(t, h.CompletedDates)

	events := drainEvents(s)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventHabitAdded, events[0].Type)
	assert.Equal(t, h.ID, events[0].HabitID)
	assert.Equal(t, "u1", events[0].UserID)
}

func TestAddHabitRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddHabit("   ", "", "")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Empty(t, s.Habits(), "failed validation must not change state")
	assert.Empty(t, drainEvents(s))
}

func TestToggleCompletion(t *testing.T) {
	s := newTestStore(t)
	h, err := s.AddHabit("Drink Water", "💧", "")
	require.NoError(t, err)
	drainEvents(s)

	today := calendar.TodayKey()

	res, err := s.ToggleCompletion(h.ID, "")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, today, res.DayKey, "empty day key defaults to today")
	assert.Equal(t, XPPerCompletion, res.Delta)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 10, res.Profile.XP)
	assert.True(t, res.Habit.CompletedOn(today))

	// Toggling again undoes the completion and debits the XP.
	res, err = s.ToggleCompletion(h.ID, today)
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, -XPPerCompletion, res.Delta)
	assert.Equal(t, 0, res.Streak)
	assert.Equal(t, 0, res.Profile.XP)
	assert.False(t, res.Habit.CompletedOn(today))
}

func TestToggleCompletionUnknownHabit(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ToggleCompletion("missing", "")
	assert.ErrorIs(t, err, ErrHabitNotFound)

	p := s.Profile()
	assert.Equal(t, 0, p.XP, "failed toggle must not award XP")
}

func TestToggleEmitsMilestone(t *testing.T) {
	s := newTestStore(t)
	h, err := s.AddHabit("Code Session", "💻", "")
	require.NoError(t, err)

	today := calendar.TodayKey()
	_, err = s.ToggleCompletion(h.ID, calendar.KeyOffset(today, -2))
	require.NoError(t, err)
	_, err = s.ToggleCompletion(h.ID, calendar.KeyOffset(today, -1))
	require.NoError(t, err)
	res, err := s.ToggleCompletion(h.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Streak)

	var milestones, completedDays []model.Event
	for _, ev := range drainEvents(s) {
		switch ev.Type {
		case model.EventStreakMilestone:
			milestones = append(milestones, ev)
		case model.EventDayCompleted:
			completedDays = append(completedDays, ev)
		}
	}
	require.Len(t, milestones, 1)
	assert.Equal(t, 3, milestones[0].Streak)
	assert.Equal(t, h.ID, milestones[0].HabitID)

	// The only habit is now completed today, so the day is fully done.
	require.Len(t, completedDays, 1)
	assert.Equal(t, today, completedDays[0].DayKey)
}

func TestDayCompletedRequiresEveryHabit(t *testing.T) {
	s := newTestStore(t)
	a, err := s.AddHabit("A", "", "")
	require.NoError(t, err)
	_, err = s.AddHabit("B", "", "")
	require.NoError(t, err)
	drainEvents(s)

	_, err = s.ToggleCompletion(a.ID, calendar.TodayKey())
	require.NoError(t, err)

	for _, ev := range drainEvents(s) {
		assert.NotEqual(t, model.EventDayCompleted, ev.Type,
			"half-done day must not celebrate")
	}
}

func TestDeleteHabit(t *testing.T) {
	s := newTestStore(t)
	h, err := s.AddHabit("Morning Stretch", "🧘", "")
	require.NoError(t, err)
	drainEvents(s)

	require.NoError(t, s.DeleteHabit(h.ID))
	assert.Empty(t, s.Habits())

	events := drainEvents(s)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventHabitDeleted, events[0].Type)
	assert.Equal(t, h.ID, events[0].HabitID)

	assert.ErrorIs(t, s.DeleteHabit(h.ID), ErrHabitNotFound)
}

func TestConcurrentTogglesSameDay(t *testing.T) {
	s := NewStore(model.Profile{UserID: "u1"}, 2048, zap.NewNop())
	defer s.Close()

	h, err := s.AddHabit("Contended", "", "")
	require.NoError(t, err)

	// Keep the event buffer drained while toggling from many goroutines.
	stopDrain := make(chan struct{})
	go func() {
		for {
			select {
			case <-s.Events():
			case <-stopDrain:
				return
			}
		}
	}()

	const n = 50 // even, so the final state is "not completed"
	day := calendar.TodayKey()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ToggleCompletion(h.ID, day)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(stopDrain)

	habits := s.Habits()
	require.Len(t, habits, 1)
	assert.False(t, habits[0].CompletedOn(day),
		"an even number of toggles must cancel out")
	assert.Equal(t, 0, s.Profile().XP)
}

func TestReplaceAll(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddHabit("local only", "", "")
	require.NoError(t, err)
	drainEvents(s)

	backend := []model.Habit{
		{ID: "b1", Name: "Backend Habit", CompletedDates: []string{"2026-03-01"}},
		{ID: "b2", Name: "Legacy", CompletedDates: nil},
	}
	require.NoError(t, s.ReplaceAll(backend, model.Profile{UserID: "u1", XP: 250}))

	habits := s.Habits()
	require.Len(t, habits, 2)
	assert.Equal(t, "b1", habits[0].ID)
	assert.NotNil(t, habits[1].CompletedDates, "nil completion sets are normalized")

	p := s.Profile()
	assert.Equal(t, 250, p.XP)
	assert.Equal(t, 3, p.Level, "level is derived from fetched XP")

	assert.Empty(t, drainEvents(s), "reconciliation must not re-enter the event stream")
}

func TestClosedStore(t *testing.T) {
	s := NewStore(model.Profile{UserID: "u1"}, 8, zap.NewNop())
	s.Close()
	s.Close() // idempotent

	_, err := s.AddHabit("late", "", "")
	assert.ErrorIs(t, err, ErrStoreClosed)
	_, err = s.ToggleCompletion("x", "")
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, open := <-s.Events()
	assert.False(t, open, "event channel closes with the store")
}
