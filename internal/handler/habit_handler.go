package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"levelup/internal/calendar"
	"levelup/internal/engine"
)

type HabitHandler struct {
	store  *engine.Store
	logger *zap.Logger
}

func NewHabitHandler(store *engine.Store, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{store: store, logger: logger}
}

// habitView is a habit plus the derived per-habit fields the dashboard
// renders.
type habitView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Icon           string   `json:"icon"`
	ReminderTime   string   `json:"reminder_time,omitempty"`
	CompletedDates []string `json:"completed_dates"`
	Completed      bool     `json:"completed"`
	Streak         int      `json:"streak"`
}

func (h *HabitHandler) ListHabits(c *gin.Context) {
	today := calendar.TodayKey()
	habits := h.store.Habits()

	views := make([]habitView, 0, len(habits))
	for _, habit := range habits {
		views = append(views, habitView{
			ID:             habit.ID,
			Name:           habit.Name,
			Icon:           habit.Icon,
			ReminderTime:   habit.ReminderTime,
			CompletedDates: habit.CompletedDates,
			Completed:      habit.CompletedOn(today),
			Streak:         engine.CurrentStreak(habit.CompletedDates),
		})
	}
	c.JSON(http.StatusOK, gin.H{"habits": views})
}

type createHabitRequest struct {
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	ReminderTime string `json:"reminder_time"`
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ReminderTime != "" {
		if _, err := time.Parse(calendar.MinuteLayout, req.ReminderTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reminder_time must be HH:MM"})
			return
		}
	}

	habit, err := h.store.AddHabit(req.Name, req.Icon, req.ReminderTime)
	if errors.Is(err, engine.ErrEmptyName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err != nil {
		h.logger.Error("CreateHabit: store rejected habit", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create habit"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"habit": habit})
}

func (h *HabitHandler) ToggleHabit(c *gin.Context) {
	id := c.Param("id")

	res, err := h.store.ToggleCompletion(id, "")
	if errors.Is(err, engine.ErrHabitNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	if err != nil {
		h.logger.Error("ToggleHabit: toggle failed",
			zap.String("habit_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit":     res.Habit,
		"day":       res.DayKey,
		"completed": res.Completed,
		"delta":     res.Delta,
		"streak":    res.Streak,
		"xp":        res.Profile.XP,
		"level":     res.Profile.Level,
	})
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	id := c.Param("id")

	err := h.store.DeleteHabit(id)
	if errors.Is(err, engine.ErrHabitNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	if err != nil {
		h.logger.Error("DeleteHabit: delete failed",
			zap.String("habit_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete habit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
