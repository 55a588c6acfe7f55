package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/geo"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

const (
	minAge          = 16
	maxDisplayName  = 64
	maxInterests    = 20
	maxSlotsPerDay  = 8
	minFitnessLevel = 1
	maxFitnessLevel = 10
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	SaveCore(ctx context.Context, p model.Profile) error
	SaveLocation(ctx context.Context, userID int64, lat, lon float64, at time.Time) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

type CoreInput struct {
	DisplayName  string
	Birthdate    *time.Time
	FitnessLevel *int
	Interests    []string
	Availability map[string][]string
	Privacy      model.PrivacySettings
}

type Service struct {
	store    ProfileStore
	cache    CacheInvalidator
	notFound error
	now      func() time.Time
}

func NewService(store ProfileStore, cache CacheInvalidator, storeNotFound error) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		notFound: storeNotFound,
		now:      time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		if s.notFound != nil && errors.Is(err, s.notFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

func (s *Service) UpdateCore(ctx context.Context, userID int64, in CoreInput) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return fmt.Errorf("profile store is nil")
	}

	normalized, err := normalizeCore(s.now().UTC(), in)
	if err != nil {
		return err
	}

	profile := model.Profile{
		UserID:       userID,
		DisplayName:  normalized.DisplayName,
		Birthdate:    normalized.Birthdate,
		FitnessLevel: normalized.FitnessLevel,
		Interests:    normalized.Interests,
		Availability: normalized.Availability,
		Privacy:      normalized.Privacy,
	}
	if err := s.store.SaveCore(ctx, profile); err != nil {
		return fmt.Errorf("save profile core: %w", err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) UpdateLocation(ctx context.Context, userID int64, lat, lon float64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if !geo.ValidCoordinates(lat, lon) {
		return fmt.Errorf("coordinates out of range: %w", ErrValidation)
	}
	if s.store == nil {
		return fmt.Errorf("profile store is nil")
	}

	if err := s.store.SaveLocation(ctx, userID, lat, lon, s.now().UTC()); err != nil {
		return fmt.Errorf("save profile location: %w", err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	// Cache staleness is acceptable, a failed invalidation must not fail
	// the write.
	_ = s.cache.Invalidate(ctx, userID)
}

func normalizeCore(now time.Time, in CoreInput) (CoreInput, error) {
	out := in

	out.DisplayName = strings.TrimSpace(in.DisplayName)
	if out.DisplayName == "" {
		return CoreInput{}, fmt.Errorf("display name is required: %w", ErrValidation)
	}
	if len(out.DisplayName) > maxDisplayName {
		return CoreInput{}, fmt.Errorf("display name is too long: %w", ErrValidation)
	}

	if in.Birthdate != nil {
		age := now.Year() - in.Birthdate.Year()
		if in.Birthdate.AddDate(age, 0, 0).After(now) {
			age--
		}
		if age < minAge {
			return CoreInput{}, fmt.Errorf("minimum age is %d: %w", minAge, ErrValidation)
		}
	}

	if in.FitnessLevel != nil {
		if *in.FitnessLevel < minFitnessLevel || *in.FitnessLevel > maxFitnessLevel {
			return CoreInput{}, fmt.Errorf("fitness level must be in [%d,%d]: %w", minFitnessLevel, maxFitnessLevel, ErrValidation)
		}
	}

	interests := make([]string, 0, len(in.Interests))
	seen := make(map[string]bool, len(in.Interests))
	for _, raw := range in.Interests {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		interests = append(interests, tag)
	}
	if len(interests) > maxInterests {
		return CoreInput{}, fmt.Errorf("too many interests: %w", ErrValidation)
	}
	out.Interests = interests

	if len(in.Availability) > 0 {
		availability := make(map[string][]string, len(in.Availability))
		for day, slots := range in.Availability {
			dayKey := strings.ToLower(strings.TrimSpace(day))
			if !weekdays[dayKey] {
				return CoreInput{}, fmt.Errorf("unknown weekday %q: %w", day, ErrValidation)
			}
			if len(slots) > maxSlotsPerDay {
				return CoreInput{}, fmt.Errorf("too many slots for %s: %w", dayKey, ErrValidation)
			}
			cleaned := make([]string, 0, len(slots))
			for _, slot := range slots {
				slot = strings.ToLower(strings.TrimSpace(slot))
				if slot != "" {
					cleaned = append(cleaned, slot)
				}
			}
			if len(cleaned) > 0 {
				availability[dayKey] = cleaned
			}
		}
		out.Availability = availability
	}

	return out, nil
}
