// Package cache persists a point-in-time snapshot of the habit collection
// and profile to redis so the view layer can survive reloads without a
// backend round trip. The snapshot is a convenience copy, never the
// source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"levelup/internal/model"
)

// snapshotVersion is bumped whenever the envelope schema changes. Older
// or unknown versions are discarded wholesale: reset to empty, never
// invent history.
const snapshotVersion = 1

type envelope struct {
	Version int               `json:"version"`
	Habits  []json.RawMessage `json:"habits"`
	Profile model.Profile     `json:"profile"`
	SavedAt time.Time         `json:"saved_at"`
}

// habitRecord keeps completed_dates raw so a legacy record with the wrong
// shape resets that habit instead of failing the whole snapshot.
type habitRecord struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Icon           string          `json:"icon"`
	ReminderTime   string          `json:"reminder_time,omitempty"`
	CompletedDates json.RawMessage `json:"completed_dates"`
}

type SnapshotStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSnapshotStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{rdb: rdb, ttl: ttl, logger: logger}
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("levelup:snapshot:%s", userID)
}

// Save writes the current state under the user's snapshot key.
func (s *SnapshotStore) Save(ctx context.Context, habits []model.Habit, profile model.Profile) error {
	raw := make([]json.RawMessage, 0, len(habits))
	for _, h := range habits {
		b, err := json.Marshal(h)
		if err != nil {
			return err
		}
		raw = append(raw, b)
	}

	body, err := json.Marshal(envelope{
		Version: snapshotVersion,
		Habits:  raw,
		Profile: profile,
		SavedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, snapshotKey(profile.UserID), body, s.ttl).Err(); err != nil {
		s.logger.Warn("Failed to save snapshot",
			zap.String("user_id", profile.UserID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Load returns the cached snapshot. ok is false when there is no usable
// snapshot (missing key, malformed body, or unknown schema version).
func (s *SnapshotStore) Load(ctx context.Context, userID string) (habits []model.Habit, profile model.Profile, ok bool, err error) {
	body, err := s.rdb.Get(ctx, snapshotKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, model.Profile{}, false, nil
	}
	if err != nil {
		return nil, model.Profile{}, false, err
	}

	habits, profile, ok = decodeSnapshot(body)
	if !ok {
		s.logger.Warn("Discarding snapshot with unknown schema",
			zap.String("user_id", userID),
		)
	}
	return habits, profile, ok, nil
}

// decodeSnapshot applies the versioned-load policy: an envelope that
// cannot be decoded or carries a different version is rejected outright;
// a habit record whose completion set is missing or not an array of
// day-keys is kept but reset to an empty set.
func decodeSnapshot(body []byte) ([]model.Habit, model.Profile, bool) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, model.Profile{}, false
	}
	if env.Version != snapshotVersion {
		return nil, model.Profile{}, false
	}

	habits := make([]model.Habit, 0, len(env.Habits))
	for _, raw := range env.Habits {
		var rec habitRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, model.Profile{}, false
		}
		habits = append(habits, sanitizeRecord(rec))
	}
	return habits, env.Profile, true
}

func sanitizeRecord(rec habitRecord) model.Habit {
	h := model.Habit{
		ID:             rec.ID,
		Name:           rec.Name,
		Icon:           rec.Icon,
		ReminderTime:   rec.ReminderTime,
		CompletedDates: []string{},
	}
	var dates []string
	if len(rec.CompletedDates) > 0 && json.Unmarshal(rec.CompletedDates, &dates) == nil && dates != nil {
		h.CompletedDates = dates
	}
	return h
}
