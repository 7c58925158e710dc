package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Completion toggles by direction (complete / undo).
	HabitToggleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_toggle_count",
			Help: "Total number of completion toggles applied",
		},
		[]string{"action"},
	)

	// Net XP credited (debits are not subtracted here; the profile is
	// the source of truth, this only tracks reward volume).
	XPAwardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total experience points credited for completions",
		},
	)

	StreakMilestoneCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streak_milestone_count",
			Help: "Streak milestones reached",
		},
		[]string{"days"},
	)

	RemindersFiredCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_fired_count",
			Help: "Reminder notify-intents emitted by the poller",
		},
	)

	NotificationsLoggedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_logged_count",
			Help: "Notification intents recorded by the worker",
		},
		[]string{"event"},
	)

	// Remote persistence calls issued by the sync reconciler.
	PersistDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persist_duration_seconds",
			Help:    "Backend persistence call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"op"},
	)

	PersistFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persist_failure_count",
			Help: "Failed backend persistence calls",
		},
		[]string{"op"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)
)

// RecordToggle records one completion toggle and its XP credit.
func RecordToggle(completed bool, delta int) {
	action := "undo"
	if completed {
		action = "complete"
		XPAwardedTotal.Add(float64(delta))
	}
	HabitToggleCount.WithLabelValues(action).Inc()
}

// RecordStreakMilestone records a milestone celebration.
func RecordStreakMilestone(days int) {
	StreakMilestoneCount.WithLabelValues(strconv.Itoa(days)).Inc()
}

// RecordPersist records one backend call.
func RecordPersist(op string, duration time.Duration, err error) {
	PersistDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		PersistFailureCount.WithLabelValues(op).Inc()
	}
}

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}
