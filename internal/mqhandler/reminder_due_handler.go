// Package mqhandler holds the notification worker's event handlers.
package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"levelup/internal/model"
	"levelup/internal/repository"
	"levelup/pkg/metrics"
	"levelup/pkg/util"
)

// ReminderDueHandler turns a notify-intent into a notification log entry,
// exactly once per habit and day even when the broker redelivers.
type ReminderDueHandler struct {
	logs    *repository.NotificationLogRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewReminderDueHandler(logs *repository.NotificationLogRepository, deduper *util.Deduper, logger *zap.Logger) *ReminderDueHandler {
	return &ReminderDueHandler{logs: logs, deduper: deduper, logger: logger}
}

func (h *ReminderDueHandler) HandleReminderDue(ctx context.Context, data json.RawMessage) error {
	var ev model.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		h.logger.Error("Failed to decode reminder event", zap.Error(err))
		// Malformed payloads are not retryable.
		return nil
	}

	dedupKey := fmt.Sprintf("%s:%s", ev.HabitID, ev.DayKey)
	if !h.deduper.AcquireOnce(ctx, "reminder.due", dedupKey) {
		return nil
	}

	name := ev.HabitID
	if ev.Habit != nil {
		name = ev.Habit.Name
	}
	log := repository.NotificationLog{
		HabitID: ev.HabitID,
		Event:   string(ev.Type),
		DayKey:  ev.DayKey,
		Message: fmt.Sprintf("Time for %q — keep the chain going!", name),
	}
	if err := h.logs.Insert(ctx, log); err != nil {
		return err
	}

	metrics.NotificationsLoggedCount.WithLabelValues(string(ev.Type)).Inc()
	h.logger.Info("Reminder notification logged",
		zap.String("habit_id", ev.HabitID),
		zap.String("day", ev.DayKey),
	)
	return nil
}
