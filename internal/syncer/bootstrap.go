package syncer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"levelup/internal/repository"
)

// defaultHabits seed a fresh account, matching the starter quests the
// dashboard ships with.
var defaultHabits = []struct {
	Name string
	Icon string
}{
	{"Morning Stretch", "🧘"},
	{"Drink Water 2L", "💧"},
	{"Read 20 mins", "📚"},
	{"Code Session", "💻"},
}

// Bootstrap performs the startup reconciliation: the backend state
// replaces local state wholesale (last-fetch-wins). This is the sole
// correction mechanism for drift between optimistic and authoritative
// state. Accounts with no persisted habits get the default set, created
// through the store so the inserts flow through the normal event path.
func (r *Reconciler) Bootstrap(ctx context.Context) error {
	local := r.store.Profile()
	userID := local.UserID

	habits, err := r.habits.FetchHabits(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch habits: %w", err)
	}

	profile, err := r.profiles.FetchProfile(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// Fresh account: keep the locally seeded profile and persist it.
		profile = local
		if err := r.profiles.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("save initial profile: %w", err)
		}
	case err != nil:
		return fmt.Errorf("fetch profile: %w", err)
	}

	if err := r.store.ReplaceAll(habits, profile); err != nil {
		return fmt.Errorf("replace local state: %w", err)
	}

	if len(habits) == 0 {
		for _, d := range defaultHabits {
			if _, err := r.store.AddHabit(d.Name, d.Icon, ""); err != nil {
				return fmt.Errorf("seed habit %q: %w", d.Name, err)
			}
		}
		r.logger.Info("Seeded default habits", zap.Int("count", len(defaultHabits)))
	}

	r.logger.Info("Bootstrap complete",
		zap.String("user_id", userID),
		zap.Int("habits", len(habits)),
		zap.Int("xp", profile.XP),
		zap.Int("level", profile.Level),
	)
	return nil
}
