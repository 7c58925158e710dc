package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"levelup/internal/calendar"
	"levelup/internal/engine"
)

// OverviewHandler serves the derived aggregates behind the progress ring,
// the level badge and the calendar heatmap.
type OverviewHandler struct {
	store  *engine.Store
	logger *zap.Logger
}

func NewOverviewHandler(store *engine.Store, logger *zap.Logger) *OverviewHandler {
	return &OverviewHandler{store: store, logger: logger}
}

func (h *OverviewHandler) Overview(c *gin.Context) {
	today := calendar.TodayKey()
	habits := h.store.Habits()
	profile := h.store.Profile()

	completed := 0
	for _, habit := range habits {
		if habit.CompletedOn(today) {
			completed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"day":             today,
		"progress":        engine.TodayProgress(habits),
		"completed_count": completed,
		"total_count":     len(habits),
		"name":            profile.Name,
		"xp":              profile.XP,
		"level":           profile.Level,
	})
}

type heatmapCell struct {
	Day       string `json:"day"`
	Intensity int    `json:"intensity"`
}

func (h *OverviewHandler) Heatmap(c *gin.Context) {
	habits := h.store.Habits()

	window := engine.HeatmapWindow()
	cells := make([]heatmapCell, 0, len(window))
	for _, day := range window {
		cells = append(cells, heatmapCell{
			Day:       day,
			Intensity: engine.Intensity(habits, day),
		})
	}
	c.JSON(http.StatusOK, gin.H{"days": cells})
}
