package matching_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/enums"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	"github.com/nvoropaev/fitmatch/backend/internal/services/matching"
)

var errStubProfileNotFound = errors.New("stub profile not found")

type actionRecord struct {
	actor  int64
	target int64
	action enums.MatchAction
}

type stubActionStore struct {
	upserts  []actionRecord
	positive map[[2]int64]bool
}

func newStubActionStore() *stubActionStore {
	return &stubActionStore{positive: map[[2]int64]bool{}}
}

func (s *stubActionStore) Upsert(_ context.Context, actorUserID, targetUserID int64, action enums.MatchAction) error {
	s.upserts = append(s.upserts, actionRecord{actorUserID, targetUserID, action})
	if action.Positive() {
		s.positive[[2]int64{actorUserID, targetUserID}] = true
	} else {
		delete(s.positive, [2]int64{actorUserID, targetUserID})
	}
	return nil
}

func (s *stubActionStore) HasPositiveAction(_ context.Context, actorUserID, targetUserID int64) (bool, error) {
	return s.positive[[2]int64{actorUserID, targetUserID}], nil
}

type stubMatchStore struct {
	matches map[[2]int64]model.MutualMatch
	nextID  int64
}

func newStubMatchStore() *stubMatchStore {
	return &stubMatchStore{matches: map[[2]int64]model.MutualMatch{}}
}

func (s *stubMatchStore) CreateIfAbsent(_ context.Context, userID, targetUserID int64, score int) (model.MutualMatch, bool, error) {
	a, b := model.CanonicalPair(userID, targetUserID)
	key := [2]int64{a, b}
	if existing, ok := s.matches[key]; ok {
		return existing, false, nil
	}

	s.nextID++
	m := model.MutualMatch{
		ID:        s.nextID,
		UserAID:   a,
		UserBID:   b,
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
	s.matches[key] = m
	return m, true, nil
}

func (s *stubMatchStore) ListForUser(_ context.Context, userID int64, _ int) ([]model.MutualMatch, error) {
	var out []model.MutualMatch
	for _, m := range s.matches {
		if m.UserAID == userID || m.UserBID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubProfileStore struct {
	profiles map[int64]model.Profile
}

func (s *stubProfileStore) Get(_ context.Context, userID int64) (model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, errStubProfileNotFound
	}
	return p, nil
}

type stubLimiter struct {
	allowed    bool
	retryAfter int64
	calls      int
}

func (s *stubLimiter) AllowAction(_ context.Context, _ int64) (int64, bool, error) {
	s.calls++
	return s.retryAfter, s.allowed, nil
}

func matchProfile(userID int64) model.Profile {
	level := 5
	lat, lon := 0.0, 0.0
	return model.Profile{
		UserID:       userID,
		DisplayName:  "User",
		Lat:          &lat,
		Lon:          &lon,
		FitnessLevel: &level,
		Interests:    []string{"yoga", "running"},
	}
}

func newMatchingService(actions *stubActionStore, matches *stubMatchStore, profiles *stubProfileStore, limiter *stubLimiter) *matching.Service {
	deps := matching.Dependencies{
		Actions:        actions,
		Matches:        matches,
		Profiles:       profiles,
		ProfileMissing: errStubProfileNotFound,
	}
	if limiter != nil {
		deps.Limiter = limiter
	}
	return matching.NewService(deps)
}

func TestRecordActionPassIsNeverMutual(t *testing.T) {
	actions := newStubActionStore()
	svc := newMatchingService(actions, newStubMatchStore(), &stubProfileStore{profiles: map[int64]model.Profile{}}, nil)

	result, err := svc.RecordAction(context.Background(), 1, 2, "pass")
	if err != nil {
		t.Fatalf("record pass: %v", err)
	}
	if result.Action != enums.MatchActionPass {
		t.Fatalf("action = %v, want PASS", result.Action)
	}
	if result.MatchCreated || result.Match != nil {
		t.Fatalf("pass must not create a match: %+v", result)
	}
	if len(actions.upserts) != 1 {
		t.Fatalf("pass should still be recorded, got %d upserts", len(actions.upserts))
	}
}

func TestRecordActionMutualLikeCreatesMatch(t *testing.T) {
	actions := newStubActionStore()
	matches := newStubMatchStore()
	profiles := &stubProfileStore{profiles: map[int64]model.Profile{
		1: matchProfile(1),
		2: matchProfile(2),
	}}
	svc := newMatchingService(actions, matches, profiles, nil)
	ctx := context.Background()

	first, err := svc.RecordAction(ctx, 2, 1, "LIKE")
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if first.MatchCreated {
		t.Fatal("one-sided like must not create a match")
	}

	second, err := svc.RecordAction(ctx, 1, 2, "LIKE")
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}
	if !second.MatchCreated || second.Match == nil {
		t.Fatalf("reciprocal like should create a match: %+v", second)
	}
	if second.Match.Partner.UserID != 2 {
		t.Fatalf("match partner = %d, want 2", second.Match.Partner.UserID)
	}
	if second.Match.Score <= 0 {
		t.Fatalf("match score not stored: %d", second.Match.Score)
	}
	if len(second.Match.SharedInterests) != 2 {
		t.Fatalf("shared interests = %v", second.Match.SharedInterests)
	}
}

func TestRecordActionIsIdempotent(t *testing.T) {
	actions := newStubActionStore()
	matches := newStubMatchStore()
	profiles := &stubProfileStore{profiles: map[int64]model.Profile{
		1: matchProfile(1),
		2: matchProfile(2),
	}}
	svc := newMatchingService(actions, matches, profiles, nil)
	ctx := context.Background()

	if _, err := svc.RecordAction(ctx, 2, 1, "LIKE"); err != nil {
		t.Fatalf("first like: %v", err)
	}
	created, err := svc.RecordAction(ctx, 1, 2, "LIKE")
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}

	replayed, err := svc.RecordAction(ctx, 1, 2, "SUPER_LIKE")
	if err != nil {
		t.Fatalf("replayed like: %v", err)
	}
	if replayed.MatchCreated {
		t.Fatal("replay must not report a new match")
	}
	if replayed.Match == nil || replayed.Match.MatchID != created.Match.MatchID {
		t.Fatalf("replay should return the existing match: %+v", replayed.Match)
	}
	if len(matches.matches) != 1 {
		t.Fatalf("expected exactly one stored match, got %d", len(matches.matches))
	}
}

func TestRecordActionOnSelfPersistsNothing(t *testing.T) {
	actions := newStubActionStore()
	svc := newMatchingService(actions, newStubMatchStore(), &stubProfileStore{profiles: map[int64]model.Profile{}}, nil)

	result, err := svc.RecordAction(context.Background(), 7, 7, "LIKE")
	if err != nil {
		t.Fatalf("self action: %v", err)
	}
	if result.MatchCreated || result.Match != nil {
		t.Fatalf("self action must not match: %+v", result)
	}
	if len(actions.upserts) != 0 {
		t.Fatalf("self action must not be stored, got %d upserts", len(actions.upserts))
	}
}

func TestRecordActionRateLimit(t *testing.T) {
	limiter := &stubLimiter{allowed: false, retryAfter: 9}
	actions := newStubActionStore()
	svc := newMatchingService(actions, newStubMatchStore(), &stubProfileStore{profiles: map[int64]model.Profile{}}, limiter)
	ctx := context.Background()

	_, err := svc.RecordAction(ctx, 1, 2, "LIKE")
	tooFast, ok := matching.IsTooFast(err)
	if !ok {
		t.Fatalf("expected too fast error, got %v", err)
	}
	if tooFast.RetryAfter() != 9 {
		t.Fatalf("retry after = %d, want 9", tooFast.RetryAfter())
	}
	if len(actions.upserts) != 0 {
		t.Fatal("limited like must not be stored")
	}

	// PASS does not consume the like budget.
	if _, err := svc.RecordAction(ctx, 1, 2, "PASS"); err != nil {
		t.Fatalf("pass under rate limit: %v", err)
	}
	if limiter.calls != 1 {
		t.Fatalf("limiter calls = %d, want 1", limiter.calls)
	}
}

func TestRecordActionUnknownAction(t *testing.T) {
	svc := newMatchingService(newStubActionStore(), newStubMatchStore(), &stubProfileStore{profiles: map[int64]model.Profile{}}, nil)

	if _, err := svc.RecordAction(context.Background(), 1, 2, "POKE"); !errors.Is(err, matching.ErrUnsupportedAction) {
		t.Fatalf("expected unsupported action, got %v", err)
	}
}

func TestRecordActionMutualWithMissingProfileIsSoft(t *testing.T) {
	actions := newStubActionStore()
	matches := newStubMatchStore()
	profiles := &stubProfileStore{profiles: map[int64]model.Profile{1: matchProfile(1)}}
	svc := newMatchingService(actions, matches, profiles, nil)
	ctx := context.Background()

	if _, err := svc.RecordAction(ctx, 2, 1, "LIKE"); err != nil {
		t.Fatalf("first like: %v", err)
	}
	result, err := svc.RecordAction(ctx, 1, 2, "LIKE")
	if err != nil {
		t.Fatalf("reciprocal like with missing profile: %v", err)
	}
	if result.MatchCreated || result.Match != nil {
		t.Fatalf("missing profile should not produce a match: %+v", result)
	}
	if len(actions.upserts) != 2 {
		t.Fatalf("actions should still be recorded, got %d", len(actions.upserts))
	}
}

func TestMutualMatchesDropsGoneCounterparts(t *testing.T) {
	matches := newStubMatchStore()
	profiles := &stubProfileStore{profiles: map[int64]model.Profile{
		1: matchProfile(1),
		2: matchProfile(2),
	}}
	if _, _, err := matches.CreateIfAbsent(context.Background(), 1, 2, 80); err != nil {
		t.Fatalf("seed match 1-2: %v", err)
	}
	if _, _, err := matches.CreateIfAbsent(context.Background(), 1, 3, 70); err != nil {
		t.Fatalf("seed match 1-3: %v", err)
	}

	svc := newMatchingService(newStubActionStore(), matches, profiles, nil)
	details, err := svc.MutualMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("mutual matches: %v", err)
	}

	if len(details) != 1 {
		t.Fatalf("expected the match with a live counterpart only, got %d", len(details))
	}
	if details[0].Partner.UserID != 2 {
		t.Fatalf("partner = %d, want 2", details[0].Partner.UserID)
	}
	if details[0].Score != 80 {
		t.Fatalf("score = %d, want 80", details[0].Score)
	}
}
