package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

type PreferenceRepo struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepo(pool *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{pool: pool}
}

// GetOrCreate returns the user's match preferences, inserting the defaults
// on first access so later reads always find a row.
func (r *PreferenceRepo) GetOrCreate(ctx context.Context, userID int64) (model.MatchPreferences, error) {
	if userID <= 0 {
		return model.MatchPreferences{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.DefaultPreferences(userID), nil
	}

	var prefs model.MatchPreferences
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		defaults := model.DefaultPreferences(userID)
		if _, err := tx.Exec(ctx, `
INSERT INTO match_preferences (
	user_id,
	max_distance_km,
	created_at,
	updated_at
) VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (user_id) DO NOTHING
`, userID, defaults.MaxDistanceKM); err != nil {
			return fmt.Errorf("insert default preferences: %w", err)
		}

		err := tx.QueryRow(ctx, `
SELECT
	user_id,
	max_distance_km,
	min_fitness_level,
	max_fitness_level,
	age_min,
	age_max,
	max_class_price,
	updated_at
FROM match_preferences
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
			&prefs.UserID,
			&prefs.MaxDistanceKM,
			&prefs.MinFitnessLevel,
			&prefs.MaxFitnessLevel,
			&prefs.AgeMin,
			&prefs.AgeMax,
			&prefs.MaxClassPrice,
			&prefs.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				prefs = defaults
				return nil
			}
			return fmt.Errorf("get preferences: %w", err)
		}

		return nil
	})
	if err != nil {
		return model.MatchPreferences{}, err
	}

	return prefs, nil
}

func (r *PreferenceRepo) Save(ctx context.Context, prefs model.MatchPreferences) error {
	if prefs.UserID <= 0 {
		return fmt.Errorf("invalid preferences payload")
	}
	if r.pool == nil {
		return nil
	}

	const query = `
INSERT INTO match_preferences (
	user_id,
	max_distance_km,
	min_fitness_level,
	max_fitness_level,
	age_min,
	age_max,
	max_class_price,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	max_distance_km = EXCLUDED.max_distance_km,
	min_fitness_level = EXCLUDED.min_fitness_level,
	max_fitness_level = EXCLUDED.max_fitness_level,
	age_min = EXCLUDED.age_min,
	age_max = EXCLUDED.age_max,
	max_class_price = EXCLUDED.max_class_price,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(
		ctx,
		query,
		prefs.UserID,
		prefs.MaxDistanceKM,
		prefs.MinFitnessLevel,
		prefs.MaxFitnessLevel,
		prefs.AgeMin,
		prefs.AgeMax,
		prefs.MaxClassPrice,
	); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	return nil
}
