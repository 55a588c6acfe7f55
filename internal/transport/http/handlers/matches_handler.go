package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	matchingsvc "github.com/nvoropaev/fitmatch/backend/internal/services/matching"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/dto"
	httperrors "github.com/nvoropaev/fitmatch/backend/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchingsvc.Service
}

func NewMatchesHandler(service *matchingsvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	matches, err := h.service.MutualMatches(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, matchingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	items := make([]dto.MatchDetailResponse, 0, len(matches))
	for _, m := range matches {
		items = append(items, mapMatchDetail(m))
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: items})
}

func mapMatchDetail(m matchingsvc.MatchDetail) dto.MatchDetailResponse {
	return dto.MatchDetailResponse{
		MatchID:         m.MatchID,
		Partner:         mapPublicProfile(m.Partner),
		Score:           m.Score,
		Reasons:         m.Reasons,
		SharedInterests: m.SharedInterests,
		DistanceKM:      m.DistanceKM,
		CreatedAt:       m.CreatedAt,
	}
}
