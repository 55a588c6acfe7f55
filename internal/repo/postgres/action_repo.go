package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/enums"
)

type ActionRepo struct {
	pool *pgxpool.Pool
}

func NewActionRepo(pool *pgxpool.Pool) *ActionRepo {
	return &ActionRepo{pool: pool}
}

// Upsert records the actor's latest action toward the target. A repeated
// action on the same pair overwrites the previous one.
func (r *ActionRepo) Upsert(ctx context.Context, actorUserID, targetUserID int64, action enums.MatchAction) error {
	if actorUserID <= 0 || targetUserID <= 0 {
		return fmt.Errorf("invalid action payload")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO match_actions (
	actor_user_id,
	target_user_id,
	action,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (actor_user_id, target_user_id) DO UPDATE SET
	action = EXCLUDED.action,
	created_at = NOW()
`, actorUserID, targetUserID, string(action)); err != nil {
		return fmt.Errorf("upsert match action: %w", err)
	}

	return nil
}

func (r *ActionRepo) HasPositiveAction(ctx context.Context, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid action lookup payload")
	}
	if r.pool == nil {
		return false, nil
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM match_actions
	WHERE actor_user_id = $1
		AND target_user_id = $2
		AND action IN ('LIKE', 'SUPER_LIKE')
)
`, actorUserID, targetUserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup positive action: %w", err)
	}

	return exists, nil
}

// ListPositiveTargets reports which of the given targets the actor has
// already liked or super-liked, in one round trip.
func (r *ActionRepo) ListPositiveTargets(ctx context.Context, actorUserID int64, targetIDs []int64) (map[int64]bool, error) {
	if actorUserID <= 0 {
		return nil, fmt.Errorf("invalid actor id")
	}
	if len(targetIDs) == 0 || r.pool == nil {
		return map[int64]bool{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT target_user_id
FROM match_actions
WHERE actor_user_id = $1
	AND target_user_id = ANY($2)
	AND action IN ('LIKE', 'SUPER_LIKE')
`, actorUserID, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("list positive targets: %w", err)
	}
	defer rows.Close()

	liked := make(map[int64]bool, len(targetIDs))
	for rows.Next() {
		var targetID int64
		if err := rows.Scan(&targetID); err != nil {
			return nil, fmt.Errorf("scan positive target: %w", err)
		}
		liked[targetID] = true
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate positive targets: %w", rows.Err())
	}

	return liked, nil
}
