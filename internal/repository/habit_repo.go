package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"levelup/internal/model"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{db: db, logger: logger}
}

// FetchHabits returns the user's habits in creation order, the order the
// dashboard lists them in.
func (r *HabitRepository) FetchHabits(ctx context.Context, userID string) ([]model.Habit, error) {
	query := `
        SELECT id, name, icon, reminder_time, completed_dates
        FROM habits
        WHERE user_id = $1
        ORDER BY created_at ASC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to fetch habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		var dates []byte
		if err := rows.Scan(&h.ID, &h.Name, &h.Icon, &h.ReminderTime, &dates); err != nil {
			r.logger.Error("Failed to scan habit", zap.Error(err))
			return nil, err
		}
		if err := json.Unmarshal(dates, &h.CompletedDates); err != nil {
			return nil, fmt.Errorf("decode completed_dates for habit %s: %w", h.ID, err)
		}
		if h.CompletedDates == nil {
			h.CompletedDates = []string{}
		}
		habits = append(habits, h)
	}

	r.logger.Debug("Fetched habits",
		zap.String("user_id", userID),
		zap.Int("count", len(habits)),
	)
	return habits, rows.Err()
}

func (r *HabitRepository) InsertHabit(ctx context.Context, userID string, h model.Habit) error {
	dates, err := json.Marshal(h.CompletedDates)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO habits (id, user_id, name, icon, reminder_time, completed_dates)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO NOTHING
    `
	if _, err := r.db.Exec(ctx, query, h.ID, userID, h.Name, h.Icon, h.ReminderTime, dates); err != nil {
		r.logger.Error("Failed to insert habit",
			zap.String("habit_id", h.ID),
			zap.Error(err),
		)
		return err
	}

	r.logger.Info("Habit inserted",
		zap.String("habit_id", h.ID),
		zap.String("user_id", userID),
	)
	return nil
}

// UpdateCompletions replaces the habit's completion set wholesale.
func (r *HabitRepository) UpdateCompletions(ctx context.Context, habitID string, completedDates []string) error {
	dates, err := json.Marshal(completedDates)
	if err != nil {
		return err
	}

	query := `
        UPDATE habits
        SET completed_dates = $2, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, habitID, dates)
	if err != nil {
		r.logger.Error("Failed to update completions",
			zap.String("habit_id", habitID),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HabitRepository) DeleteHabit(ctx context.Context, habitID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habits WHERE id = $1`, habitID)
	if err != nil {
		r.logger.Error("Failed to delete habit",
			zap.String("habit_id", habitID),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Habit deleted from backend", zap.String("habit_id", habitID))
	return nil
}
