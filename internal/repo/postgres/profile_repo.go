package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `
	user_id,
	COALESCE(display_name, ''),
	birthdate,
	last_lat,
	last_lon,
	fitness_level,
	COALESCE(interests, '{}'),
	availability,
	COALESCE(hide_age, FALSE),
	COALESCE(hide_location, FALSE),
	COALESCE(hide_fitness_level, FALSE),
	COALESCE(hide_availability, FALSE),
	updated_at`

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Birthdate,
		&p.Lat,
		&p.Lon,
		&p.FitnessLevel,
		&p.Interests,
		&p.Availability,
		&p.Privacy.HideAge,
		&p.Privacy.HideLocation,
		&p.Privacy.HideFitnessLevel,
		&p.Privacy.HideAvailability,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.Profile{}, ErrProfileNotFound
	}

	p, err := scanProfile(r.pool.QueryRow(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

func (r *ProfileRepo) SaveCore(ctx context.Context, p model.Profile) error {
	if p.UserID <= 0 {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return nil
	}

	const query = `
INSERT INTO profiles (
	user_id,
	display_name,
	birthdate,
	fitness_level,
	interests,
	availability,
	hide_age,
	hide_location,
	hide_fitness_level,
	hide_availability,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	birthdate = EXCLUDED.birthdate,
	fitness_level = EXCLUDED.fitness_level,
	interests = EXCLUDED.interests,
	availability = EXCLUDED.availability,
	hide_age = EXCLUDED.hide_age,
	hide_location = EXCLUDED.hide_location,
	hide_fitness_level = EXCLUDED.hide_fitness_level,
	hide_availability = EXCLUDED.hide_availability,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(
		ctx,
		query,
		p.UserID,
		p.DisplayName,
		p.Birthdate,
		p.FitnessLevel,
		p.Interests,
		p.Availability,
		p.Privacy.HideAge,
		p.Privacy.HideLocation,
		p.Privacy.HideFitnessLevel,
		p.Privacy.HideAvailability,
	); err != nil {
		return fmt.Errorf("save profile core: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SaveLocation(ctx context.Context, userID int64, lat, lon float64, at time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil
	}

	const query = `
INSERT INTO profiles (
	user_id,
	display_name,
	last_lat,
	last_lon,
	last_geo_at,
	updated_at
) VALUES ($1, '', $2, $3, $4, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	last_lat = EXCLUDED.last_lat,
	last_lon = EXCLUDED.last_lon,
	last_geo_at = EXCLUDED.last_geo_at,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(ctx, query, userID, lat, lon, at.UTC()); err != nil {
		return fmt.Errorf("save profile location: %w", err)
	}

	return nil
}

// ListCandidates returns the most recently active profiles other than the
// viewer, skipping anyone the viewer already passed on.
func (r *ProfileRepo) ListCandidates(ctx context.Context, viewerUserID int64, limit int) ([]model.Profile, error) {
	if viewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if limit <= 0 {
		limit = 200
	}
	if r.pool == nil {
		return []model.Profile{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+profileColumns+`
FROM profiles p
WHERE
	p.user_id <> $1
	AND NOT EXISTS (
		SELECT 1
		FROM match_actions a
		WHERE a.actor_user_id = $1
			AND a.target_user_id = p.user_id
			AND a.action = 'PASS'
	)
ORDER BY p.updated_at DESC, p.user_id DESC
LIMIT $2
`, viewerUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidate profiles: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0, limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate profile: %w", err)
		}
		items = append(items, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidate profiles: %w", rows.Err())
	}

	return items, nil
}
