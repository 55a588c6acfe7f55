package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

type ClassRepo struct {
	pool *pgxpool.Pool
}

func NewClassRepo(pool *pgxpool.Pool) *ClassRepo {
	return &ClassRepo{pool: pool}
}

type ClassQuery struct {
	From      time.Time
	To        time.Time
	CenterLat *float64
	CenterLon *float64
	RadiusKM  float64
	Limit     int
}

func (r *ClassRepo) Create(ctx context.Context, c model.Class) (int64, error) {
	if c.Title == "" {
		return 0, fmt.Errorf("invalid class payload")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO classes (
	title,
	lat,
	lon,
	intensity,
	price,
	starts_at,
	tags,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
RETURNING id
`, c.Title, c.Lat, c.Lon, c.Intensity, c.Price, c.StartsAt.UTC(), c.Tags).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create class: %w", err)
	}

	return id, nil
}

// List returns upcoming classes in the window, pre-filtered to a spherical
// radius around the center when one is given. The radius is a coarse SQL
// cut, exact distances are computed by the caller.
func (r *ClassRepo) List(ctx context.Context, q ClassQuery) ([]model.Class, error) {
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if r.pool == nil {
		return []model.Class{}, nil
	}

	applyRadius := q.CenterLat != nil && q.CenterLon != nil && q.RadiusKM > 0
	var centerLat, centerLon float64
	if applyRadius {
		centerLat = *q.CenterLat
		centerLon = *q.CenterLon
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	id,
	title,
	lat,
	lon,
	intensity,
	price,
	starts_at,
	COALESCE(tags, '{}')
FROM classes
WHERE
	starts_at >= $1
	AND starts_at < $2
	AND (
		$3::boolean = FALSE
		OR 6371.0 * ACOS(LEAST(1.0, GREATEST(-1.0,
			COS(RADIANS($4::float8)) * COS(RADIANS(lat)) * COS(RADIANS(lon) - RADIANS($5::float8))
			+ SIN(RADIANS($4::float8)) * SIN(RADIANS(lat))
		))) <= $6::float8
	)
ORDER BY starts_at ASC, id ASC
LIMIT $7
`, q.From.UTC(), q.To.UTC(), applyRadius, centerLat, centerLon, q.RadiusKM, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Class, 0, q.Limit)
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Lat,
			&c.Lon,
			&c.Intensity,
			&c.Price,
			&c.StartsAt,
			&c.Tags,
		); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		items = append(items, c)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate classes: %w", rows.Err())
	}

	return items, nil
}
