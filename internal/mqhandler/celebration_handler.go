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

// CelebrationHandler records streak-milestone and day-fully-completed
// events. What the view layer does with them (confetti, sounds) is its
// own business.
type CelebrationHandler struct {
	logs    *repository.NotificationLogRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewCelebrationHandler(logs *repository.NotificationLogRepository, deduper *util.Deduper, logger *zap.Logger) *CelebrationHandler {
	return &CelebrationHandler{logs: logs, deduper: deduper, logger: logger}
}

func (h *CelebrationHandler) HandleCelebration(ctx context.Context, data json.RawMessage) error {
	var ev model.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		h.logger.Error("Failed to decode celebration event", zap.Error(err))
		return nil
	}

	var dedupKey, message string
	switch ev.Type {
	case model.EventStreakMilestone:
		dedupKey = fmt.Sprintf("%s:%s:%d", ev.HabitID, ev.DayKey, ev.Streak)
		message = fmt.Sprintf("%d-day streak reached!", ev.Streak)
	case model.EventDayCompleted:
		dedupKey = ev.DayKey
		message = "All quests completed today!"
	default:
		h.logger.Warn("Unexpected event type", zap.String("type", string(ev.Type)))
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, string(ev.Type), dedupKey) {
		return nil
	}

	log := repository.NotificationLog{
		HabitID: ev.HabitID,
		Event:   string(ev.Type),
		DayKey:  ev.DayKey,
		Message: message,
	}
	if err := h.logs.Insert(ctx, log); err != nil {
		return err
	}

	metrics.NotificationsLoggedCount.WithLabelValues(string(ev.Type)).Inc()
	h.logger.Info("Celebration logged",
		zap.String("event", string(ev.Type)),
		zap.String("day", ev.DayKey),
		zap.Int("streak", ev.Streak),
	)
	return nil
}
