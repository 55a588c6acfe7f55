package preferences_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	"github.com/nvoropaev/fitmatch/backend/internal/services/preferences"
)

type stubPreferenceStore struct {
	prefs map[int64]model.MatchPreferences
	saved []model.MatchPreferences
}

func newStubPreferenceStore() *stubPreferenceStore {
	return &stubPreferenceStore{prefs: map[int64]model.MatchPreferences{}}
}

func (s *stubPreferenceStore) GetOrCreate(_ context.Context, userID int64) (model.MatchPreferences, error) {
	if p, ok := s.prefs[userID]; ok {
		return p, nil
	}
	p := model.DefaultPreferences(userID)
	s.prefs[userID] = p
	return p, nil
}

func (s *stubPreferenceStore) Save(_ context.Context, prefs model.MatchPreferences) error {
	s.saved = append(s.saved, prefs)
	s.prefs[prefs.UserID] = prefs
	return nil
}

func TestGetReturnsDefaultsOnFirstAccess(t *testing.T) {
	svc := preferences.NewService(newStubPreferenceStore(), nil)

	prefs, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.MaxDistanceKM != model.DefaultMaxDistanceKM {
		t.Fatalf("default max distance = %v, want %v", prefs.MaxDistanceKM, model.DefaultMaxDistanceKM)
	}
}

func TestUpdateMergesPartialInput(t *testing.T) {
	store := newStubPreferenceStore()
	svc := preferences.NewService(store, nil)
	ctx := context.Background()

	dist := 25.0
	if _, err := svc.Update(ctx, 1, preferences.UpdateInput{MaxDistanceKM: &dist}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	minLevel := 3
	prefs, err := svc.Update(ctx, 1, preferences.UpdateInput{MinFitnessLevel: &minLevel})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if prefs.MaxDistanceKM != 25.0 {
		t.Fatalf("second update clobbered max distance: %v", prefs.MaxDistanceKM)
	}
	if prefs.MinFitnessLevel == nil || *prefs.MinFitnessLevel != 3 {
		t.Fatalf("min fitness level not applied: %v", prefs.MinFitnessLevel)
	}
}

func TestUpdateRejectsInvertedBounds(t *testing.T) {
	svc := preferences.NewService(newStubPreferenceStore(), nil)

	minLevel, maxLevel := 8, 2
	_, err := svc.Update(context.Background(), 1, preferences.UpdateInput{
		MinFitnessLevel: &minLevel,
		MaxFitnessLevel: &maxLevel,
	})
	if !errors.Is(err, preferences.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateClearsPriceBudget(t *testing.T) {
	store := newStubPreferenceStore()
	svc := preferences.NewService(store, nil)
	ctx := context.Background()

	price := 30.0
	if _, err := svc.Update(ctx, 1, preferences.UpdateInput{MaxClassPrice: &price}); err != nil {
		t.Fatalf("set price: %v", err)
	}

	prefs, err := svc.Update(ctx, 1, preferences.UpdateInput{ClearPrice: true})
	if err != nil {
		t.Fatalf("clear price: %v", err)
	}
	if prefs.MaxClassPrice != nil {
		t.Fatalf("price budget not cleared: %v", *prefs.MaxClassPrice)
	}
}
