package partners

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/geo"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/scoring"
)

var ErrValidation = errors.New("validation error")

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	ListCandidates(ctx context.Context, viewerUserID int64, limit int) ([]model.Profile, error)
}

type PreferenceStore interface {
	GetOrCreate(ctx context.Context, userID int64) (model.MatchPreferences, error)
}

type ActionStore interface {
	ListPositiveTargets(ctx context.Context, actorUserID int64, targetIDs []int64) (map[int64]bool, error)
}

type PhotoSigner interface {
	SignedURLs(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

type SuggestionCache interface {
	GetPartnerSuggestions(ctx context.Context, userID int64) ([]byte, bool, error)
	SetPartnerSuggestions(ctx context.Context, userID int64, payload []byte, ttl time.Duration) error
}

type Suggestion struct {
	Profile         model.PublicProfile `json:"profile"`
	Score           int                 `json:"score"`
	Reasons         []string            `json:"reasons"`
	SharedInterests []string            `json:"shared_interests"`
	DistanceKM      *float64            `json:"distance_km,omitempty"`
}

type Config struct {
	MinScore      int
	MaxDistanceKM float64
	Limit         int
	PoolSize      int
	CacheTTL      time.Duration
}

type Dependencies struct {
	Profiles       ProfileStore
	Preferences    PreferenceStore
	Actions        ActionStore
	Photos         PhotoSigner
	Cache          SuggestionCache
	ProfileMissing error
	Logger         *zap.Logger
}

type Service struct {
	profiles       ProfileStore
	preferences    PreferenceStore
	actions        ActionStore
	photos         PhotoSigner
	cache          SuggestionCache
	profileMissing error
	weights        scoring.PartnerWeights
	cfg            Config
	log            *zap.Logger
	now            func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MinScore <= 0 {
		cfg.MinScore = 60
	}
	if cfg.MaxDistanceKM <= 0 {
		cfg.MaxDistanceKM = model.DefaultMaxDistanceKM
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 200
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		profiles:       deps.Profiles,
		preferences:    deps.Preferences,
		actions:        deps.Actions,
		photos:         deps.Photos,
		cache:          deps.Cache,
		profileMissing: deps.ProfileMissing,
		weights:        scoring.DefaultPartnerWeights(),
		cfg:            cfg,
		log:            log,
		now:            time.Now,
	}
}

// FindPartners scores the candidate pool against the viewer and returns the
// best matches above the score floor, strongest first.
func (s *Service) FindPartners(ctx context.Context, viewerUserID int64) ([]Suggestion, error) {
	if viewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id: %w", ErrValidation)
	}
	if s.profiles == nil || s.preferences == nil || s.actions == nil {
		return nil, fmt.Errorf("partner dependencies are not configured")
	}

	if cached, ok := s.fromCache(ctx, viewerUserID); ok {
		return cached, nil
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

	candidates, err := s.profiles.ListCandidates(ctx, viewerUserID, s.cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []Suggestion{}, nil
	}

	targetIDs := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		targetIDs = append(targetIDs, c.UserID)
	}
	liked, err := s.actions.ListPositiveTargets(ctx, viewerUserID, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("list prior interactions: %w", err)
	}

	now := s.now().UTC()
	suggestions := make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		if !passesPreferences(prefs, candidate, now) {
			continue
		}

		var distance *float64
		if viewer.HasCoordinates() && candidate.HasCoordinates() {
			d := geo.DistanceKM(*viewer.Lat, *viewer.Lon, *candidate.Lat, *candidate.Lon)
			if d > maxDistance {
				continue
			}
			distance = &d
		}

		result := scoring.ScorePartner(viewer, candidate, distance, liked[candidate.UserID], s.weights)
		if result.Score < s.cfg.MinScore {
			continue
		}

		suggestion := Suggestion{
			Profile:         candidate.PublicView(now),
			Score:           result.Score,
			Reasons:         result.Reasons,
			SharedInterests: scoring.SharedInterests(viewer.Interests, candidate.Interests),
		}
		if distance != nil && !candidate.Privacy.HideLocation {
			suggestion.DistanceKM = distance
		}
		suggestions = append(suggestions, suggestion)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > s.cfg.Limit {
		suggestions = suggestions[:s.cfg.Limit]
	}

	if err := s.attachPhotos(ctx, suggestions); err != nil {
		return nil, err
	}

	s.toCache(ctx, viewerUserID, suggestions)
	return suggestions, nil
}

func passesPreferences(prefs model.MatchPreferences, candidate model.Profile, now time.Time) bool {
	if candidate.FitnessLevel != nil {
		if prefs.MinFitnessLevel != nil && *candidate.FitnessLevel < *prefs.MinFitnessLevel {
			return false
		}
		if prefs.MaxFitnessLevel != nil && *candidate.FitnessLevel > *prefs.MaxFitnessLevel {
			return false
		}
	}

	if age := candidate.Age(now); age != nil {
		if prefs.AgeMin != nil && *age < *prefs.AgeMin {
			return false
		}
		if prefs.AgeMax != nil && *age > *prefs.AgeMax {
			return false
		}
	}

	return true
}

func (s *Service) attachPhotos(ctx context.Context, suggestions []Suggestion) error {
	if s.photos == nil || len(suggestions) == 0 {
		return nil
	}

	userIDs := make([]int64, 0, len(suggestions))
	for _, suggestion := range suggestions {
		userIDs = append(userIDs, suggestion.Profile.UserID)
	}

	urls, err := s.photos.SignedURLs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("sign photo urls: %w", err)
	}

	for i := range suggestions {
		if url, ok := urls[suggestions[i].Profile.UserID]; ok {
			u := url
			suggestions[i].Profile.PhotoURL = &u
		}
	}

	return nil
}

func (s *Service) fromCache(ctx context.Context, viewerUserID int64) ([]Suggestion, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, ok, err := s.cache.GetPartnerSuggestions(ctx, viewerUserID)
	if err != nil {
		s.log.Warn("read partner suggestion cache", zap.Int64("user_id", viewerUserID), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var suggestions []Suggestion
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		s.log.Warn("decode partner suggestion cache", zap.Int64("user_id", viewerUserID), zap.Error(err))
		return nil, false
	}

	return suggestions, true
}

func (s *Service) toCache(ctx context.Context, viewerUserID int64, suggestions []Suggestion) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := s.cache.SetPartnerSuggestions(ctx, viewerUserID, payload, s.cfg.CacheTTL); err != nil {
		s.log.Warn("write partner suggestion cache", zap.Int64("user_id", viewerUserID), zap.Error(err))
	}
}
