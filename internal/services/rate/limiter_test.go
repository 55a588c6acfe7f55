package rate_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/nvoropaev/fitmatch/backend/internal/repo/redis"
	ratesvc "github.com/nvoropaev/fitmatch/backend/internal/services/rate"
)

func TestAllowActionWithinBudget(t *testing.T) {
	limiter, cleanup := newLimiterForTest(t, 5, 3)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		retryAfter, allowed, err := limiter.AllowAction(ctx, 42)
		if err != nil {
			t.Fatalf("allow action %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("action %d should be allowed, retry after %d", i, retryAfter)
		}
	}
}

func TestAllowActionBurstLimit(t *testing.T) {
	limiter, cleanup := newLimiterForTest(t, 100, 2)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, allowed, err := limiter.AllowAction(ctx, 7); err != nil || !allowed {
			t.Fatalf("warmup action %d: allowed=%v err=%v", i, allowed, err)
		}
	}

	retryAfter, allowed, err := limiter.AllowAction(ctx, 7)
	if err != nil {
		t.Fatalf("allow action over burst: %v", err)
	}
	if allowed {
		t.Fatal("third action inside 10s should be rejected")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry after, got %d", retryAfter)
	}
}

func TestAllowActionIsolatesUsers(t *testing.T) {
	limiter, cleanup := newLimiterForTest(t, 100, 1)
	defer cleanup()

	ctx := context.Background()
	if _, allowed, err := limiter.AllowAction(ctx, 1); err != nil || !allowed {
		t.Fatalf("first user warmup: allowed=%v err=%v", allowed, err)
	}

	if _, allowed, err := limiter.AllowAction(ctx, 2); err != nil || !allowed {
		t.Fatalf("second user should not share the first user's window: allowed=%v err=%v", allowed, err)
	}
}

func newLimiterForTest(t *testing.T, perMinute, per10Sec int) (*ratesvc.Limiter, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	limiter := ratesvc.NewLimiter(redrepo.NewRateRepo(client), perMinute, per10Sec)

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return limiter, cleanup
}
