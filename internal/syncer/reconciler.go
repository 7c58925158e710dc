// Package syncer mediates between the habit store's optimistic local
// mutations and the authoritative backend. Local commits have already
// happened by the time an event reaches this package; persistence is
// asynchronous, ordered per habit, and never rolls local state back.
package syncer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"levelup/internal/engine"
	"levelup/internal/model"
	"levelup/pkg/metrics"
)

// HabitBackend is the remote store for habit records.
type HabitBackend interface {
	FetchHabits(ctx context.Context, userID string) ([]model.Habit, error)
	InsertHabit(ctx context.Context, userID string, h model.Habit) error
	UpdateCompletions(ctx context.Context, habitID string, dates []string) error
	DeleteHabit(ctx context.Context, habitID string) error
}

// ProfileBackend is the remote store for the progression record.
type ProfileBackend interface {
	// FetchProfile returns repository.ErrNotFound for accounts that have
	// never been persisted.
	FetchProfile(ctx context.Context, userID string) (model.Profile, error)
	SaveProfile(ctx context.Context, p model.Profile) error
}

// PublishFunc forwards celebration events (streak milestones, fully
// completed days) out of the process. Optional.
type PublishFunc func(ctx context.Context, ev model.Event) error

// Failure is a persistence error surfaced to the caller. The optimistic
// local state it refers to is retained as-is; retrying or waiting for the
// next full fetch is the caller's decision.
type Failure struct {
	Op    string
	Event model.Event
	Err   error
}

const profileQueueKey = "profile"

type job func()

// Reconciler drains the store's event stream. Each habit gets its own
// serialized persistence lane so writes for one habit can never overtake
// each other; profile saves ride a lane of their own.
type Reconciler struct {
	store    *engine.Store
	habits   HabitBackend
	profiles ProfileBackend
	publish  PublishFunc
	timeout  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	queues   map[string]chan job
	wg       sync.WaitGroup
	failures chan Failure
}

func NewReconciler(
	store *engine.Store,
	habits HabitBackend,
	profiles ProfileBackend,
	publish PublishFunc,
	timeout time.Duration,
	logger *zap.Logger,
) *Reconciler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reconciler{
		store:    store,
		habits:   habits,
		profiles: profiles,
		publish:  publish,
		timeout:  timeout,
		logger:   logger,
		queues:   make(map[string]chan job),
		failures: make(chan Failure, 64),
	}
}

// Failures exposes surfaced persistence errors. Errors are additionally
// logged, so an idle consumer loses nothing but the retry opportunity.
func (r *Reconciler) Failures() <-chan Failure {
	return r.failures
}

// Run pumps store events into persistence lanes until the store's event
// channel closes, then drains every lane and closes Failures.
func (r *Reconciler) Run() {
	r.logger.Info("Starting sync reconciler", zap.Duration("timeout", r.timeout))

	for ev := range r.store.Events() {
		r.dispatch(ev)
	}

	r.mu.Lock()
	for _, q := range r.queues {
		close(q)
	}
	r.mu.Unlock()
	r.wg.Wait()
	close(r.failures)
	r.logger.Info("Sync reconciler stopped")
}

func (r *Reconciler) dispatch(ev model.Event) {
	switch ev.Type {
	case model.EventHabitAdded:
		habit := *ev.Habit
		userID := ev.UserID
		r.enqueue(ev.HabitID, func() {
			r.persist("insert_habit", ev, func(ctx context.Context) error {
				return r.habits.InsertHabit(ctx, userID, habit)
			})
		})

	case model.EventHabitToggled:
		habit := *ev.Habit
		profile := *ev.Profile
		r.enqueue(ev.HabitID, func() {
			r.persist("update_completions", ev, func(ctx context.Context) error {
				return r.habits.UpdateCompletions(ctx, habit.ID, habit.CompletedDates)
			})
		})
		r.enqueue(profileQueueKey, func() {
			r.persist("save_profile", ev, func(ctx context.Context) error {
				return r.profiles.SaveProfile(ctx, profile)
			})
		})

	case model.EventHabitDeleted:
		habitID := ev.HabitID
		r.enqueue(habitID, func() {
			r.persist("delete_habit", ev, func(ctx context.Context) error {
				return r.habits.DeleteHabit(ctx, habitID)
			})
		})

	case model.EventStreakMilestone, model.EventDayCompleted:
		r.forward(ev)
	}
}

// forward pushes a celebration event to the outside world, best effort.
func (r *Reconciler) forward(ev model.Event) {
	if r.publish == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.publish(ctx, ev); err != nil {
		r.logger.Error("Failed to publish event",
			zap.String("type", string(ev.Type)),
			zap.Error(err),
		)
	}
}

// enqueue appends a job to the lane for key, creating the lane worker on
// first use. Sends block when a lane backs up, preserving order.
func (r *Reconciler) enqueue(key string, fn job) {
	r.mu.Lock()
	q, ok := r.queues[key]
	if !ok {
		q = make(chan job, 32)
		r.queues[key] = q
		r.wg.Add(1)
		go r.lane(q)
	}
	r.mu.Unlock()
	q <- fn
}

func (r *Reconciler) lane(q chan job) {
	defer r.wg.Done()
	for fn := range q {
		fn()
	}
}

func (r *Reconciler) persist(op string, ev model.Event, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.RecordPersist(op, time.Since(start), err)
	if err == nil {
		return
	}

	r.logger.Error("Persistence call failed; local state retained",
		zap.String("op", op),
		zap.String("habit_id", ev.HabitID),
		zap.Error(err),
	)
	select {
	case r.failures <- Failure{Op: op, Event: ev, Err: err}:
	default:
		r.logger.Warn("Failure channel full, dropping report", zap.String("op", op))
	}
}
