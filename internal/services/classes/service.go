package classes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/geo"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/scoring"
	pgrepo "github.com/nvoropaev/fitmatch/backend/internal/repo/postgres"
)

const (
	FitPerfect = "perfect"
	FitGood    = "good"
	FitOkay    = "okay"
)

var ErrValidation = errors.New("validation error")

type ClassStore interface {
	List(ctx context.Context, q pgrepo.ClassQuery) ([]model.Class, error)
	Create(ctx context.Context, c model.Class) (int64, error)
}

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
}

type PreferenceStore interface {
	GetOrCreate(ctx context.Context, userID int64) (model.MatchPreferences, error)
}

type Suggestion struct {
	Class      model.Class `json:"class"`
	Score      int         `json:"score"`
	Fit        string      `json:"fit"`
	Reasons    []string    `json:"reasons"`
	DistanceKM *float64    `json:"distance_km,omitempty"`
}

type Config struct {
	MinScore         int
	WindowDays       int
	Limit            int
	RadiusMultiplier float64
	MaxDistanceKM    float64
}

type Dependencies struct {
	Classes        ClassStore
	Profiles       ProfileStore
	Preferences    PreferenceStore
	ProfileMissing error
}

type Service struct {
	classes        ClassStore
	profiles       ProfileStore
	preferences    PreferenceStore
	profileMissing error
	weights        scoring.ClassWeights
	cfg            Config
	now            func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MinScore <= 0 {
		cfg.MinScore = 50
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	if cfg.RadiusMultiplier <= 0 {
		cfg.RadiusMultiplier = 2.0
	}
	if cfg.MaxDistanceKM <= 0 {
		cfg.MaxDistanceKM = model.DefaultMaxDistanceKM
	}

	return &Service{
		classes:        deps.Classes,
		profiles:       deps.Profiles,
		preferences:    deps.Preferences,
		profileMissing: deps.ProfileMissing,
		weights:        scoring.DefaultClassWeights(),
		cfg:            cfg,
		now:            time.Now,
	}
}

// FindClasses scores upcoming classes against the viewer's profile and
// budget and returns the best fits, strongest first.
func (s *Service) FindClasses(ctx context.Context, viewerUserID int64) ([]Suggestion, error) {
	if viewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id: %w", ErrValidation)
	}
	if s.classes == nil || s.profiles == nil || s.preferences == nil {
		return nil, fmt.Errorf("class dependencies are not configured")
	}

	viewer, err := s.profiles.Get(ctx, viewerUserID)
	if err != nil {
		// A viewer without a profile gets an empty list, not an error.
		if s.profileMissing != nil && errors.Is(err, s.profileMissing) {
			return []Suggestion{}, nil
		}
		return nil, fmt.Errorf("get viewer profile: %w", err)
	}

	prefs, err := s.preferences.GetOrCreate(ctx, viewerUserID)
	if err != nil {
		return nil, fmt.Errorf("get viewer preferences: %w", err)
	}
	maxDistance := prefs.MaxDistanceKM
	if maxDistance <= 0 {
		maxDistance = s.cfg.MaxDistanceKM
	}

	now := s.now().UTC()
	query := pgrepo.ClassQuery{
		From:  now,
		To:    now.AddDate(0, 0, s.cfg.WindowDays),
		Limit: 200,
	}
	if viewer.HasCoordinates() {
		query.CenterLat = viewer.Lat
		query.CenterLon = viewer.Lon
		// Wider than the preference radius so locationConvenience can still
		// rank the outer band instead of the SQL cut dropping it entirely.
		query.RadiusKM = maxDistance * s.cfg.RadiusMultiplier
	}

	upcoming, err := s.classes.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list upcoming classes: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(upcoming))
	for _, class := range upcoming {
		var distance *float64
		if viewer.HasCoordinates() {
			d := geo.DistanceKM(*viewer.Lat, *viewer.Lon, class.Lat, class.Lon)
			distance = &d
		}

		result := scoring.ScoreClass(viewer, class, distance, maxDistance, prefs.MaxClassPrice, s.weights)
		if result.Score < s.cfg.MinScore {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			Class:      class,
			Score:      result.Score,
			Fit:        fitLabel(result.Score),
			Reasons:    result.Reasons,
			DistanceKM: distance,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > s.cfg.Limit {
		suggestions = suggestions[:s.cfg.Limit]
	}

	return suggestions, nil
}

// CreateClass registers a class in the catalog. Reachable from the admin
// surface only.
func (s *Service) CreateClass(ctx context.Context, c model.Class) (int64, error) {
	if s.classes == nil {
		return 0, fmt.Errorf("class store is nil")
	}
	if c.Title == "" {
		return 0, fmt.Errorf("class title is required: %w", ErrValidation)
	}
	if !geo.ValidCoordinates(c.Lat, c.Lon) {
		return 0, fmt.Errorf("class coordinates out of range: %w", ErrValidation)
	}
	if c.Intensity < 1 || c.Intensity > 10 {
		return 0, fmt.Errorf("class intensity must be in [1,10]: %w", ErrValidation)
	}
	if c.Price < 0 {
		return 0, fmt.Errorf("class price must not be negative: %w", ErrValidation)
	}
	if c.StartsAt.Before(s.now()) {
		return 0, fmt.Errorf("class must start in the future: %w", ErrValidation)
	}

	id, err := s.classes.Create(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create class: %w", err)
	}

	return id, nil
}

func fitLabel(score int) string {
	switch {
	case score >= 80:
		return FitPerfect
	case score >= 65:
		return FitGood
	default:
		return FitOkay
	}
}
