package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NotificationLog records one notify-intent the worker handled. Delivery
// mechanics past this log are out of scope; the log is what the view
// layer and ops read.
type NotificationLog struct {
	HabitID string
	Event   string
	DayKey  string
	Message string
}

type NotificationLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationLogRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationLogRepository {
	return &NotificationLogRepository{db: db, logger: logger}
}

func (r *NotificationLogRepository) Insert(ctx context.Context, log NotificationLog) error {
	query := `
        INSERT INTO notification_log (habit_id, event, day_key, message)
        VALUES ($1, $2, $3, $4)
    `
	if _, err := r.db.Exec(ctx, query, log.HabitID, log.Event, log.DayKey, log.Message); err != nil {
		r.logger.Error("Failed to insert notification log",
			zap.String("event", log.Event),
			zap.Error(err),
		)
		return err
	}
	return nil
}
