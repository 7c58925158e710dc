// Package scheduler evaluates reminder times on a fixed polling interval
// and emits a notify-intent for each habit that is due.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"levelup/internal/calendar"
	"levelup/internal/model"
	"levelup/pkg/metrics"
)

// Snapshotter hands the poller a stable snapshot of the habit collection;
// the poller never reads live store state.
type Snapshotter interface {
	Habits() []model.Habit
}

// PublishFunc delivers a notify-intent event. Returning an error leaves
// the habit eligible to fire again on a later poll.
type PublishFunc func(ctx context.Context, ev model.Event) error

// Poller wakes on a fixed interval and emits at most one notify-intent
// per habit per day: a habit is due when its reminder time equals the
// current minute, it has not been completed today, and it has not already
// fired for today's day-key. The last-fired marker (rather than raw
// minute matching) keeps a poll landing twice in the same minute from
// double-notifying.
type Poller struct {
	store    Snapshotter
	publish  PublishFunc
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	lastFired map[string]string // habit id -> day-key last fired
}

func NewPoller(store Snapshotter, publish PublishFunc, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 20 * time.Second
	}
	return &Poller{
		store:     store,
		publish:   publish,
		interval:  interval,
		logger:    logger,
		lastFired: make(map[string]string),
	}
}

// Run polls until the context is canceled. No notify-intents are emitted
// after it returns.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Starting reminder poller", zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Reminder poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx, time.Now())
		}
	}
}

func (p *Poller) poll(ctx context.Context, now time.Time) {
	minute := calendar.MinuteKey(now)
	today := calendar.Key(now)

	for _, h := range p.store.Habits() {
		if h.ReminderTime == "" || h.ReminderTime != minute {
			continue
		}
		if h.CompletedOn(today) {
			continue
		}
		if !p.markFired(h.ID, today) {
			continue
		}

		habit := h.Clone()
		ev := model.Event{
			Type:    model.EventReminderDue,
			HabitID: habit.ID,
			DayKey:  today,
			Habit:   &habit,
		}
		if err := p.publish(ctx, ev); err != nil {
			p.logger.Error("Failed to publish reminder intent",
				zap.String("habit_id", habit.ID),
				zap.Error(err),
			)
			// Roll the marker back so a later poll retries.
			p.clearFired(habit.ID)
			continue
		}

		metrics.RemindersFiredCount.Inc()
		p.logger.Info("Reminder due",
			zap.String("habit_id", habit.ID),
			zap.String("name", habit.Name),
			zap.String("minute", minute),
		)
	}
}

// markFired returns false when the habit already fired for dayKey.
func (p *Poller) markFired(habitID, dayKey string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastFired[habitID] == dayKey {
		return false
	}
	p.lastFired[habitID] = dayKey
	return true
}

func (p *Poller) clearFired(habitID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.lastFired, habitID)
}
