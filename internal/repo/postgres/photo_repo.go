package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

// Save stores the user's photo object key. One photo per user, uploading
// again replaces it.
func (r *PhotoRepo) Save(ctx context.Context, userID int64, objectKey string) error {
	if userID <= 0 || objectKey == "" {
		return fmt.Errorf("invalid photo payload")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profile_photos (
	user_id,
	object_key,
	created_at
) VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	object_key = EXCLUDED.object_key,
	created_at = NOW()
`, userID, objectKey); err != nil {
		return fmt.Errorf("save photo: %w", err)
	}

	return nil
}

func (r *PhotoRepo) GetKey(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return "", ErrPhotoNotFound
	}

	var key string
	err := r.pool.QueryRow(ctx, `
SELECT object_key
FROM profile_photos
WHERE user_id = $1
LIMIT 1
`, userID).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrPhotoNotFound
		}
		return "", fmt.Errorf("get photo key: %w", err)
	}

	return key, nil
}

// GetKeys fetches the object keys for a batch of users. Users without a
// photo are simply absent from the result.
func (r *PhotoRepo) GetKeys(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 || r.pool == nil {
		return map[int64]string{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT user_id, object_key
FROM profile_photos
WHERE user_id = ANY($1)
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get photo keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[int64]string, len(userIDs))
	for rows.Next() {
		var userID int64
		var key string
		if err := rows.Scan(&userID, &key); err != nil {
			return nil, fmt.Errorf("scan photo key: %w", err)
		}
		keys[userID] = key
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photo keys: %w", rows.Err())
	}

	return keys, nil
}
