package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/enums"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/geo"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	"github.com/nvoropaev/fitmatch/backend/internal/domain/scoring"
	"github.com/nvoropaev/fitmatch/backend/internal/services/classes"
	"github.com/nvoropaev/fitmatch/backend/internal/services/partners"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedAction = errors.New("unsupported action")
)

// TooFastError reports how long the caller has to wait before the next
// action is accepted.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type ActionStore interface {
	Upsert(ctx context.Context, actorUserID, targetUserID int64, action enums.MatchAction) error
	HasPositiveAction(ctx context.Context, actorUserID, targetUserID int64) (bool, error)
}

type MatchStore interface {
	CreateIfAbsent(ctx context.Context, userID, targetUserID int64, score int) (model.MutualMatch, bool, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]model.MutualMatch, error)
}

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
}

type RateLimiter interface {
	AllowAction(ctx context.Context, userID int64) (int64, bool, error)
}

type PartnerFinder interface {
	FindPartners(ctx context.Context, viewerUserID int64) ([]partners.Suggestion, error)
}

type ClassFinder interface {
	FindClasses(ctx context.Context, viewerUserID int64) ([]classes.Suggestion, error)
}

type PhotoSigner interface {
	SignedURLs(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

// MatchDetail describes one mutual match from the calling user's side.
type MatchDetail struct {
	MatchID         int64               `json:"match_id"`
	Partner         model.PublicProfile `json:"partner"`
	Score           int                 `json:"score"`
	Reasons         []string            `json:"reasons,omitempty"`
	SharedInterests []string            `json:"shared_interests,omitempty"`
	DistanceKM      *float64            `json:"distance_km,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

type ActionResult struct {
	Action       enums.MatchAction `json:"action"`
	MatchCreated bool              `json:"match_created"`
	Match        *MatchDetail      `json:"match,omitempty"`
}

type Dependencies struct {
	Actions        ActionStore
	Matches        MatchStore
	Profiles       ProfileStore
	Limiter        RateLimiter
	Partners       PartnerFinder
	Classes        ClassFinder
	Photos         PhotoSigner
	ProfileMissing error
	Logger         *zap.Logger
}

type Service struct {
	actions        ActionStore
	matches        MatchStore
	profiles       ProfileStore
	limiter        RateLimiter
	partners       PartnerFinder
	classes        ClassFinder
	photos         PhotoSigner
	profileMissing error
	weights        scoring.PartnerWeights
	log            *zap.Logger
	now            func() time.Time
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		actions:        deps.Actions,
		matches:        deps.Matches,
		profiles:       deps.Profiles,
		limiter:        deps.Limiter,
		partners:       deps.Partners,
		classes:        deps.Classes,
		photos:         deps.Photos,
		profileMissing: deps.ProfileMissing,
		weights:        scoring.DefaultPartnerWeights(),
		log:            log,
		now:            time.Now,
	}
}

// RecordAction writes the actor's action and, on a reciprocal positive
// action, creates the mutual match. Replaying the same like returns the
// existing match instead of a second one.
func (s *Service) RecordAction(ctx context.Context, actorUserID, targetUserID int64, rawAction string) (ActionResult, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return ActionResult{}, fmt.Errorf("invalid action payload: %w", ErrValidation)
	}

	action, ok := enums.ParseMatchAction(rawAction)
	if !ok {
		return ActionResult{}, ErrUnsupportedAction
	}

	// Acting on yourself is a no-op rather than an error, nothing is stored
	// and no match can come of it.
	if actorUserID == targetUserID {
		return ActionResult{Action: action}, nil
	}

	if s.actions == nil || s.matches == nil || s.profiles == nil {
		return ActionResult{}, fmt.Errorf("matching dependencies are not configured")
	}

	if action.Positive() && s.limiter != nil {
		retryAfter, allowed, err := s.limiter.AllowAction(ctx, actorUserID)
		if err != nil {
			return ActionResult{}, fmt.Errorf("apply action rate limiter: %w", err)
		}
		if !allowed {
			return ActionResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	if err := s.actions.Upsert(ctx, actorUserID, targetUserID, action); err != nil {
		return ActionResult{}, fmt.Errorf("record action: %w", err)
	}

	result := ActionResult{Action: action}
	if !action.Positive() {
		return result, nil
	}

	reciprocal, err := s.actions.HasPositiveAction(ctx, targetUserID, actorUserID)
	if err != nil {
		return ActionResult{}, fmt.Errorf("check reciprocal action: %w", err)
	}
	if !reciprocal {
		return result, nil
	}

	detail, created, err := s.createMatch(ctx, actorUserID, targetUserID)
	if err != nil {
		return ActionResult{}, err
	}
	if detail == nil {
		return result, nil
	}

	result.MatchCreated = created
	result.Match = detail
	return result, nil
}

func (s *Service) createMatch(ctx context.Context, actorUserID, targetUserID int64) (*MatchDetail, bool, error) {
	actor, err := s.profiles.Get(ctx, actorUserID)
	if err != nil {
		if s.profileMissing != nil && errors.Is(err, s.profileMissing) {
			s.log.Warn("mutual like without actor profile", zap.Int64("user_id", actorUserID))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get actor profile: %w", err)
	}

	target, err := s.profiles.Get(ctx, targetUserID)
	if err != nil {
		if s.profileMissing != nil && errors.Is(err, s.profileMissing) {
			s.log.Warn("mutual like without target profile", zap.Int64("user_id", targetUserID))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get target profile: %w", err)
	}

	var distance *float64
	if actor.HasCoordinates() && target.HasCoordinates() {
		d := geo.DistanceKM(*actor.Lat, *actor.Lon, *target.Lat, *target.Lon)
		distance = &d
	}

	// Both sides have just liked each other, so the interaction factor is
	// always on for the stored score.
	score := scoring.ScorePartner(actor, target, distance, true, s.weights)

	match, created, err := s.matches.CreateIfAbsent(ctx, actorUserID, targetUserID, score.Score)
	if err != nil {
		return nil, false, fmt.Errorf("create mutual match: %w", err)
	}

	now := s.now().UTC()
	detail := &MatchDetail{
		MatchID:         match.ID,
		Partner:         target.PublicView(now),
		Score:           match.Score,
		Reasons:         score.Reasons,
		SharedInterests: scoring.SharedInterests(actor.Interests, target.Interests),
		CreatedAt:       match.CreatedAt,
	}
	if distance != nil && !target.Privacy.HideLocation {
		detail.DistanceKM = distance
	}
	s.attachPhoto(ctx, detail)

	return detail, created, nil
}

// MutualMatches lists the user's matches with the counterpart profile
// attached. Matches whose counterpart profile is gone are dropped.
func (s *Service) MutualMatches(ctx context.Context, userID int64) ([]MatchDetail, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.matches == nil || s.profiles == nil {
		return nil, fmt.Errorf("matching dependencies are not configured")
	}

	rows, err := s.matches.ListForUser(ctx, userID, 100)
	if err != nil {
		return nil, fmt.Errorf("list mutual matches: %w", err)
	}

	now := s.now().UTC()
	details := make([]MatchDetail, 0, len(rows))
	for _, row := range rows {
		otherID := row.OtherUser(userID)
		other, err := s.profiles.Get(ctx, otherID)
		if err != nil {
			if s.profileMissing != nil && errors.Is(err, s.profileMissing) {
				continue
			}
			return nil, fmt.Errorf("get counterpart profile: %w", err)
		}

		detail := MatchDetail{
			MatchID:   row.ID,
			Partner:   other.PublicView(now),
			Score:     row.Score,
			CreatedAt: row.CreatedAt,
		}
		s.attachPhoto(ctx, &detail)
		details = append(details, detail)
	}

	return details, nil
}

// FindPartners delegates to the partner matcher so handlers have a single
// matching facade.
func (s *Service) FindPartners(ctx context.Context, viewerUserID int64) ([]partners.Suggestion, error) {
	if s.partners == nil {
		return nil, fmt.Errorf("partner finder is not configured")
	}
	return s.partners.FindPartners(ctx, viewerUserID)
}

func (s *Service) FindClasses(ctx context.Context, viewerUserID int64) ([]classes.Suggestion, error) {
	if s.classes == nil {
		return nil, fmt.Errorf("class finder is not configured")
	}
	return s.classes.FindClasses(ctx, viewerUserID)
}

func (s *Service) attachPhoto(ctx context.Context, detail *MatchDetail) {
	if s.photos == nil || detail == nil {
		return
	}

	urls, err := s.photos.SignedURLs(ctx, []int64{detail.Partner.UserID})
	if err != nil {
		s.log.Warn("sign partner photo url", zap.Int64("user_id", detail.Partner.UserID), zap.Error(err))
		return
	}
	if url, ok := urls[detail.Partner.UserID]; ok {
		detail.Partner.PhotoURL = &url
	}
}
