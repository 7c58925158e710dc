// Package engine implements the habit progress engine: streak and heatmap
// derivation, XP accounting, and the habit store all mutations funnel
// through.
package engine

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"levelup/internal/calendar"
	"levelup/internal/model"
	"levelup/pkg/metrics"
)

var (
	ErrEmptyName     = errors.New("engine: habit name is required")
	ErrHabitNotFound = errors.New("engine: habit not found")
	ErrStoreClosed   = errors.New("engine: store is closed")
)

// ToggleResult reports the outcome of a completion toggle.
type ToggleResult struct {
	Habit     model.Habit
	DayKey    string
	Completed bool // state after the toggle
	Delta     int
	Streak    int
	Profile   model.Profile
}

// Store owns the canonical habit collection and the user profile. All
// mutations run on a single apply goroutine, so the read-modify-write of
// a toggle is atomic with respect to every other mutation; concurrent
// toggles on the same habit can never produce a lost update. Derived
// values (streak, progress, intensity) are recomputed from snapshots on
// demand and never stored.
type Store struct {
	ops    chan func()
	events chan model.Event
	done   chan struct{}
	closer sync.Once

	// Mutable state below is touched only from the apply goroutine.
	habits  map[string]*model.Habit
	order   []string // habit ids in insertion order
	profile model.Profile

	logger *zap.Logger
}

// NewStore starts the apply goroutine. The profile's level is normalized
// from its XP so a caller can never seed a desynchronized pair.
func NewStore(profile model.Profile, eventBuffer int, logger *zap.Logger) *Store {
	if eventBuffer <= 0 {
		eventBuffer = 128
	}
	profile.Level = LevelForXP(profile.XP)
	s := &Store{
		ops:     make(chan func()),
		events:  make(chan model.Event, eventBuffer),
		done:    make(chan struct{}),
		habits:  make(map[string]*model.Habit),
		profile: profile,
		logger:  logger,
	}
	go s.loop()
	return s
}

func (s *Store) loop() {
	defer close(s.events)
	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.done:
			return
		}
	}
}

// do runs op on the apply goroutine and waits for it to finish.
func (s *Store) do(op func()) error {
	ran := make(chan struct{})
	wrapped := func() {
		defer close(ran)
		op()
	}
	select {
	case s.ops <- wrapped:
	case <-s.done:
		return ErrStoreClosed
	}
	select {
	case <-ran:
		return nil
	case <-s.done:
		// The loop may have exited between accepting and running the op.
		select {
		case <-ran:
			return nil
		default:
			return ErrStoreClosed
		}
	}
}

// Events returns the mutation/celebration event stream. The channel is
// closed by Close once the apply goroutine has stopped; a consumer must
// keep draining it or mutations will eventually block.
func (s *Store) Events() <-chan model.Event {
	return s.events
}

// Close stops the apply goroutine. Pending and subsequent operations
// return ErrStoreClosed.
func (s *Store) Close() {
	s.closer.Do(func() { close(s.done) })
}

func (s *Store) emit(ev model.Event) {
	ev.UserID = s.profile.UserID
	s.events <- ev
}

// AddHabit creates a habit with an empty completion set. The name must be
// non-empty after trimming; validation runs before any state changes.
func (s *Store) AddHabit(name, icon, reminderTime string) (model.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Habit{}, ErrEmptyName
	}

	var out model.Habit
	err := s.do(func() {
		h := &model.Habit{
			ID:             uuid.NewString(),
			Name:           name,
			Icon:           icon,
			ReminderTime:   reminderTime,
			CompletedDates: []string{},
		}
		s.habits[h.ID] = h
		s.order = append(s.order, h.ID)
		out = h.Clone()

		snapshot := h.Clone()
		s.emit(model.Event{Type: model.EventHabitAdded, HabitID: h.ID, Habit: &snapshot})
		s.logger.Info("Habit added",
			zap.String("habit_id", h.ID),
			zap.String("name", h.Name),
		)
	})
	return out, err
}

// ToggleCompletion flips the habit's completion state for dayKey (today
// when empty). Adding the key credits XPPerCompletion, removing it debits
// the same amount; the completion-set mutation and the XP update happen
// in one apply step so neither can be observed without the other.
func (s *Store) ToggleCompletion(habitID, dayKey string) (ToggleResult, error) {
	if dayKey == "" {
		dayKey = calendar.TodayKey()
	}

	var res ToggleResult
	var opErr error
	err := s.do(func() {
		h, ok := s.habits[habitID]
		if !ok {
			opErr = ErrHabitNotFound
			return
		}

		delta := XPPerCompletion
		if h.CompletedOn(dayKey) {
			dates := h.CompletedDates[:0]
			for _, d := range h.CompletedDates {
				if d != dayKey {
					dates = append(dates, d)
				}
			}
			h.CompletedDates = dates
			delta = -XPPerCompletion
		} else {
			h.CompletedDates = append(h.CompletedDates, dayKey)
		}
		s.profile = ApplyDelta(s.profile, delta)

		res = ToggleResult{
			Habit:     h.Clone(),
			DayKey:    dayKey,
			Completed: delta > 0,
			Delta:     delta,
			Streak:    CurrentStreak(h.CompletedDates),
			Profile:   s.profile,
		}

		habitSnap := h.Clone()
		profileSnap := s.profile
		s.emit(model.Event{
			Type:      model.EventHabitToggled,
			HabitID:   h.ID,
			DayKey:    dayKey,
			Completed: res.Completed,
			Delta:     delta,
			Streak:    res.Streak,
			Habit:     &habitSnap,
			Profile:   &profileSnap,
		})
		metrics.RecordToggle(res.Completed, delta)

		if res.Completed {
			if streakMilestones[res.Streak] {
				s.emit(model.Event{
					Type:    model.EventStreakMilestone,
					HabitID: h.ID,
					DayKey:  dayKey,
					Streak:  res.Streak,
				})
				metrics.RecordStreakMilestone(res.Streak)
			}
			if dayKey == calendar.TodayKey() && progressOn(s.list(), dayKey) == 100 {
				s.emit(model.Event{Type: model.EventDayCompleted, DayKey: dayKey})
			}
		}

		s.logger.Debug("Habit toggled",
			zap.String("habit_id", h.ID),
			zap.String("day", dayKey),
			zap.Bool("completed", res.Completed),
			zap.Int("delta", delta),
			zap.Int("streak", res.Streak),
			zap.Int("xp", s.profile.XP),
		)
	})
	if err != nil {
		return ToggleResult{}, err
	}
	return res, opErr
}

// DeleteHabit removes the habit from the local collection immediately and
// emits a deletion event for asynchronous backend cleanup. Deleting an
// unknown id is reported, not applied.
func (s *Store) DeleteHabit(habitID string) error {
	var opErr error
	err := s.do(func() {
		if _, ok := s.habits[habitID]; !ok {
			opErr = ErrHabitNotFound
			return
		}
		delete(s.habits, habitID)
		for i, id := range s.order {
			if id == habitID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		s.emit(model.Event{Type: model.EventHabitDeleted, HabitID: habitID})
		s.logger.Info("Habit deleted", zap.String("habit_id", habitID))
	})
	if err != nil {
		return err
	}
	return opErr
}

// Habits returns a stable snapshot of the collection in insertion order.
func (s *Store) Habits() []model.Habit {
	var out []model.Habit
	_ = s.do(func() {
		out = make([]model.Habit, 0, len(s.order))
		for _, id := range s.order {
			out = append(out, s.habits[id].Clone())
		}
	})
	return out
}

// Profile returns the current progression record.
func (s *Store) Profile() model.Profile {
	var out model.Profile
	_ = s.do(func() { out = s.profile })
	return out
}

// ReplaceAll swaps in the authoritative backend state wholesale
// (last-fetch-wins reconciliation). No events are emitted: this is the
// correction path, not a mutation to be persisted.
func (s *Store) ReplaceAll(habits []model.Habit, profile model.Profile) error {
	return s.do(func() {
		s.habits = make(map[string]*model.Habit, len(habits))
		s.order = make([]string, 0, len(habits))
		for _, h := range habits {
			c := h.Clone()
			if c.CompletedDates == nil {
				c.CompletedDates = []string{}
			}
			s.habits[c.ID] = &c
			s.order = append(s.order, c.ID)
		}
		profile.Level = LevelForXP(profile.XP)
		s.profile = profile
		s.logger.Info("Local state replaced from backend",
			zap.Int("habits", len(habits)),
			zap.Int("xp", profile.XP),
		)
	})
}

// list is the loop-local view used for derived checks; no clones.
func (s *Store) list() []model.Habit {
	out := make([]model.Habit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.habits[id])
	}
	return out
}
