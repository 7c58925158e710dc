package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"levelup/internal/model"
)

type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProfileRepository(db *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, logger: logger}
}

func (r *ProfileRepository) FetchProfile(ctx context.Context, userID string) (model.Profile, error) {
	query := `
        SELECT user_id, name, email, xp, level
        FROM profiles
        WHERE user_id = $1
    `

	var p model.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Name, &p.Email, &p.XP, &p.Level)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch profile",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return model.Profile{}, err
	}
	return p, nil
}

// SaveProfile upserts the progression record. XP and level are written
// together; the row can never hold a desynchronized pair.
func (r *ProfileRepository) SaveProfile(ctx context.Context, p model.Profile) error {
	query := `
        INSERT INTO profiles (user_id, name, email, xp, level)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE
        SET name = EXCLUDED.name,
            email = EXCLUDED.email,
            xp = EXCLUDED.xp,
            level = EXCLUDED.level,
            updated_at = NOW()
    `
	if _, err := r.db.Exec(ctx, query, p.UserID, p.Name, p.Email, p.XP, p.Level); err != nil {
		r.logger.Error("Failed to save profile",
			zap.String("user_id", p.UserID),
			zap.Error(err),
		)
		return err
	}

	r.logger.Debug("Profile saved",
		zap.String("user_id", p.UserID),
		zap.Int("xp", p.XP),
		zap.Int("level", p.Level),
	)
	return nil
}
