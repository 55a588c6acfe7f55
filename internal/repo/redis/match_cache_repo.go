package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const partnerCachePrefix = "partner_suggestions:"

// MatchCacheRepo keeps a short-lived copy of a user's last partner
// suggestion payload so page refreshes do not rescore the whole pool.
type MatchCacheRepo struct {
	client *goredis.Client
}

func NewMatchCacheRepo(client *goredis.Client) *MatchCacheRepo {
	return &MatchCacheRepo{client: client}
}

func (r *MatchCacheRepo) GetPartnerSuggestions(ctx context.Context, userID int64) ([]byte, bool, error) {
	if r.client == nil || userID <= 0 {
		return nil, false, nil
	}

	payload, err := r.client.Get(ctx, partnerCacheKey(userID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached partner suggestions: %w", err)
	}

	return payload, true, nil
}

func (r *MatchCacheRepo) SetPartnerSuggestions(ctx context.Context, userID int64, payload []byte, ttl time.Duration) error {
	if r.client == nil || userID <= 0 || len(payload) == 0 || ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, partnerCacheKey(userID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache partner suggestions: %w", err)
	}

	return nil
}

// Invalidate drops the cached suggestions after anything that changes the
// inputs, a profile edit or a preference update.
func (r *MatchCacheRepo) Invalidate(ctx context.Context, userID int64) error {
	if r.client == nil || userID <= 0 {
		return nil
	}

	if err := r.client.Del(ctx, partnerCacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate partner suggestions: %w", err)
	}

	return nil
}

func partnerCacheKey(userID int64) string {
	return partnerCachePrefix + strconv.FormatInt(userID, 10)
}
