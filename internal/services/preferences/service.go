package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

const maxDistanceCapKM = 500.0

var ErrValidation = errors.New("validation error")

type PreferenceStore interface {
	GetOrCreate(ctx context.Context, userID int64) (model.MatchPreferences, error)
	Save(ctx context.Context, prefs model.MatchPreferences) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// UpdateInput carries only the fields the caller wants to change, nil
// leaves the stored value alone.
type UpdateInput struct {
	MaxDistanceKM   *float64
	MinFitnessLevel *int
	MaxFitnessLevel *int
	AgeMin          *int
	AgeMax          *int
	MaxClassPrice   *float64
	ClearPrice      bool
}

type Service struct {
	store PreferenceStore
	cache CacheInvalidator
}

func NewService(store PreferenceStore, cache CacheInvalidator) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) Get(ctx context.Context, userID int64) (model.MatchPreferences, error) {
	if userID <= 0 {
		return model.MatchPreferences{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.MatchPreferences{}, fmt.Errorf("preference store is nil")
	}

	prefs, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return model.MatchPreferences{}, fmt.Errorf("get preferences: %w", err)
	}

	return prefs, nil
}

func (s *Service) Update(ctx context.Context, userID int64, in UpdateInput) (model.MatchPreferences, error) {
	if userID <= 0 {
		return model.MatchPreferences{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.MatchPreferences{}, fmt.Errorf("preference store is nil")
	}

	prefs, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return model.MatchPreferences{}, fmt.Errorf("load preferences before update: %w", err)
	}

	if in.MaxDistanceKM != nil {
		if *in.MaxDistanceKM <= 0 || *in.MaxDistanceKM > maxDistanceCapKM {
			return model.MatchPreferences{}, fmt.Errorf("max distance must be in (0,%v]: %w", maxDistanceCapKM, ErrValidation)
		}
		prefs.MaxDistanceKM = *in.MaxDistanceKM
	}
	if in.MinFitnessLevel != nil {
		prefs.MinFitnessLevel = in.MinFitnessLevel
	}
	if in.MaxFitnessLevel != nil {
		prefs.MaxFitnessLevel = in.MaxFitnessLevel
	}
	if prefs.MinFitnessLevel != nil && prefs.MaxFitnessLevel != nil && *prefs.MinFitnessLevel > *prefs.MaxFitnessLevel {
		return model.MatchPreferences{}, fmt.Errorf("fitness level bounds are inverted: %w", ErrValidation)
	}

	if in.AgeMin != nil {
		prefs.AgeMin = in.AgeMin
	}
	if in.AgeMax != nil {
		prefs.AgeMax = in.AgeMax
	}
	if prefs.AgeMin != nil && prefs.AgeMax != nil && *prefs.AgeMin > *prefs.AgeMax {
		return model.MatchPreferences{}, fmt.Errorf("age bounds are inverted: %w", ErrValidation)
	}

	if in.ClearPrice {
		prefs.MaxClassPrice = nil
	} else if in.MaxClassPrice != nil {
		if *in.MaxClassPrice < 0 {
			return model.MatchPreferences{}, fmt.Errorf("max class price must not be negative: %w", ErrValidation)
		}
		prefs.MaxClassPrice = in.MaxClassPrice
	}

	if err := s.store.Save(ctx, prefs); err != nil {
		return model.MatchPreferences{}, fmt.Errorf("save preferences: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}

	return prefs, nil
}
