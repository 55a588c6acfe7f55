package partners_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	"github.com/nvoropaev/fitmatch/backend/internal/services/partners"
)

var errStubProfileNotFound = errors.New("stub profile not found")

type stubProfileStore struct {
	viewer     model.Profile
	hasViewer  bool
	candidates []model.Profile
}

func (s *stubProfileStore) Get(_ context.Context, userID int64) (model.Profile, error) {
	if !s.hasViewer || s.viewer.UserID != userID {
		return model.Profile{}, errStubProfileNotFound
	}
	return s.viewer, nil
}

func (s *stubProfileStore) ListCandidates(_ context.Context, _ int64, limit int) ([]model.Profile, error) {
	if len(s.candidates) > limit {
		return s.candidates[:limit], nil
	}
	return s.candidates, nil
}

type stubPreferenceStore struct {
	prefs model.MatchPreferences
}

func (s *stubPreferenceStore) GetOrCreate(_ context.Context, userID int64) (model.MatchPreferences, error) {
	if s.prefs.UserID == 0 {
		return model.DefaultPreferences(userID), nil
	}
	return s.prefs, nil
}

type stubActionStore struct {
	liked map[int64]bool
}

func (s *stubActionStore) ListPositiveTargets(_ context.Context, _ int64, _ []int64) (map[int64]bool, error) {
	if s.liked == nil {
		return map[int64]bool{}, nil
	}
	return s.liked, nil
}

func newTestService(store *stubProfileStore, prefs *stubPreferenceStore, actions *stubActionStore) *partners.Service {
	return partners.NewService(partners.Dependencies{
		Profiles:       store,
		Preferences:    prefs,
		Actions:        actions,
		ProfileMissing: errStubProfileNotFound,
	}, partners.Config{})
}

func fullProfile(userID int64, lat, lon float64) model.Profile {
	level := 5
	birthdate := time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)
	return model.Profile{
		UserID:       userID,
		DisplayName:  "User",
		Birthdate:    &birthdate,
		Lat:          &lat,
		Lon:          &lon,
		FitnessLevel: &level,
		Interests:    []string{"yoga", "running", "hiking"},
		Availability: map[string][]string{
			"monday":    {"morning", "evening"},
			"wednesday": {"morning"},
			"friday":    {"morning", "evening"},
		},
	}
}

func TestFindPartnersRanksByScore(t *testing.T) {
	viewer := fullProfile(1, 0, 0)
	near := fullProfile(2, 0, 0)
	farther := fullProfile(3, 0.045, 0)

	store := &stubProfileStore{viewer: viewer, hasViewer: true, candidates: []model.Profile{farther, near}}
	svc := newTestService(store, &stubPreferenceStore{}, &stubActionStore{})

	suggestions, err := svc.FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners: %v", err)
	}

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Profile.UserID != 2 {
		t.Fatalf("identical nearby profile should rank first, got user %d", suggestions[0].Profile.UserID)
	}
	if suggestions[0].Score <= suggestions[1].Score {
		t.Fatalf("scores not descending: %d then %d", suggestions[0].Score, suggestions[1].Score)
	}
	if suggestions[0].Score != 95 {
		t.Fatalf("identical profile score = %d, want 95", suggestions[0].Score)
	}
	if len(suggestions[0].SharedInterests) != 3 {
		t.Fatalf("shared interests = %v", suggestions[0].SharedInterests)
	}
}

func TestFindPartnersExcludesBeyondMaxDistance(t *testing.T) {
	viewer := fullProfile(1, 0, 0)
	far := fullProfile(2, 0.2, 0)

	store := &stubProfileStore{viewer: viewer, hasViewer: true, candidates: []model.Profile{far}}
	svc := newTestService(store, &stubPreferenceStore{}, &stubActionStore{})

	suggestions, err := svc.FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("candidate 22km away should be excluded, got %v", suggestions)
	}
}

func TestFindPartnersAppliesFitnessPreference(t *testing.T) {
	viewer := fullProfile(1, 0, 0)
	candidate := fullProfile(2, 0, 0)
	high := 9
	candidate.FitnessLevel = &high

	maxLevel := 5
	prefs := model.DefaultPreferences(1)
	prefs.MaxFitnessLevel = &maxLevel

	store := &stubProfileStore{viewer: viewer, hasViewer: true, candidates: []model.Profile{candidate}}
	svc := newTestService(store, &stubPreferenceStore{prefs: prefs}, &stubActionStore{})

	suggestions, err := svc.FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("candidate above fitness cap should be excluded, got %v", suggestions)
	}
}

func TestFindPartnersPriorInteractionBoost(t *testing.T) {
	viewer := fullProfile(1, 0, 0)
	candidate := fullProfile(2, 0, 0)
	store := &stubProfileStore{viewer: viewer, hasViewer: true, candidates: []model.Profile{candidate}}

	base, err := newTestService(store, &stubPreferenceStore{}, &stubActionStore{}).FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners without interaction: %v", err)
	}

	boosted, err := newTestService(store, &stubPreferenceStore{}, &stubActionStore{liked: map[int64]bool{2: true}}).FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners with interaction: %v", err)
	}

	if boosted[0].Score <= base[0].Score {
		t.Fatalf("prior interaction should raise the score: %d vs %d", boosted[0].Score, base[0].Score)
	}
}

func TestFindPartnersKeepsCandidateWithUnknownLocation(t *testing.T) {
	viewer := fullProfile(1, 0, 0)
	candidate := fullProfile(2, 0, 0)
	candidate.Lat = nil
	candidate.Lon = nil

	store := &stubProfileStore{viewer: viewer, hasViewer: true, candidates: []model.Profile{candidate}}
	svc := newTestService(store, &stubPreferenceStore{}, &stubActionStore{})

	suggestions, err := svc.FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("candidate without coordinates must not be distance-filtered, got %d suggestions", len(suggestions))
	}
	if suggestions[0].DistanceKM != nil {
		t.Fatalf("distance should be unknown, got %v", *suggestions[0].DistanceKM)
	}
}

func TestFindPartnersKeepsCandidatesWhenViewerHasNoLocation(t *testing.T) {
	viewer := fullProfile(1, 0, 0)
	viewer.Lat = nil
	viewer.Lon = nil
	far := fullProfile(2, 0.2, 0)

	store := &stubProfileStore{viewer: viewer, hasViewer: true, candidates: []model.Profile{far}}
	svc := newTestService(store, &stubPreferenceStore{}, &stubActionStore{})

	suggestions, err := svc.FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("viewer without coordinates cannot distance-filter, got %d suggestions", len(suggestions))
	}
	if suggestions[0].DistanceKM != nil {
		t.Fatalf("distance should be unknown, got %v", *suggestions[0].DistanceKM)
	}
}

func TestFindPartnersHidesDistanceForPrivateLocation(t *testing.T) {
	viewer := fullProfile(1, 0, 0)
	candidate := fullProfile(2, 0.045, 0)
	candidate.Privacy.HideLocation = true

	store := &stubProfileStore{viewer: viewer, hasViewer: true, candidates: []model.Profile{candidate}}
	svc := newTestService(store, &stubPreferenceStore{}, &stubActionStore{})

	suggestions, err := svc.FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(suggestions))
	}
	if suggestions[0].DistanceKM != nil {
		t.Fatalf("distance should be hidden, got %v", *suggestions[0].DistanceKM)
	}
}

func TestFindPartnersWithoutViewerProfileReturnsEmpty(t *testing.T) {
	store := &stubProfileStore{}
	svc := newTestService(store, &stubPreferenceStore{}, &stubActionStore{})

	suggestions, err := svc.FindPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("find partners: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected empty result, got %d suggestions", len(suggestions))
	}
}
