package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

type MutualMatchRepo struct {
	pool *pgxpool.Pool
}

func NewMutualMatchRepo(pool *pgxpool.Pool) *MutualMatchRepo {
	return &MutualMatchRepo{pool: pool}
}

// CreateIfAbsent inserts the match for the pair and returns it. When the
// pair is already matched the existing row comes back with created false,
// so concurrent reciprocal likes converge on one match.
func (r *MutualMatchRepo) CreateIfAbsent(ctx context.Context, userID, targetUserID int64, score int) (model.MutualMatch, bool, error) {
	if userID <= 0 || targetUserID <= 0 || userID == targetUserID {
		return model.MutualMatch{}, false, fmt.Errorf("invalid match payload")
	}
	if r.pool == nil {
		return model.MutualMatch{}, false, fmt.Errorf("postgres pool is nil")
	}

	userA, userB := model.CanonicalPair(userID, targetUserID)

	var m model.MutualMatch
	err := r.pool.QueryRow(ctx, `
INSERT INTO mutual_matches (
	user_a_id,
	user_b_id,
	score,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id, user_a_id, user_b_id, score, created_at
`, userA, userB, score).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.CreatedAt)
	if err == nil {
		return m, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.MutualMatch{}, false, fmt.Errorf("create mutual match: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, score, created_at
FROM mutual_matches
WHERE user_a_id = $1 AND user_b_id = $2
LIMIT 1
`, userA, userB).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.CreatedAt)
	if err != nil {
		return model.MutualMatch{}, false, fmt.Errorf("get existing mutual match: %w", err)
	}

	return m, false, nil
}

func (r *MutualMatchRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]model.MutualMatch, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []model.MutualMatch{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_a_id, user_b_id, score, created_at
FROM mutual_matches
WHERE user_a_id = $1 OR user_b_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list mutual matches: %w", err)
	}
	defer rows.Close()

	items := make([]model.MutualMatch, 0, limit)
	for rows.Next() {
		var m model.MutualMatch
		if err := rows.Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mutual match: %w", err)
		}
		items = append(items, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate mutual matches: %w", rows.Err())
	}

	return items, nil
}
