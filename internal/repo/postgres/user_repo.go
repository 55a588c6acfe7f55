package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/enums"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// EnsureUser creates the user row on first login and returns the stored
// role either way.
func (r *UserRepo) EnsureUser(ctx context.Context, userID int64) (enums.Role, error) {
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return enums.RoleUser, nil
	}

	var role string
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (id, role, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
RETURNING role
`, userID, string(enums.RoleUser)).Scan(&role)
	if err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}

	return enums.Role(role), nil
}
