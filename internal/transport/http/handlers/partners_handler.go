package handlers

import (
	"errors"
	"net/http"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	matchingsvc "github.com/nvoropaev/fitmatch/backend/internal/services/matching"
	partnersvc "github.com/nvoropaev/fitmatch/backend/internal/services/partners"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/dto"
	httperrors "github.com/nvoropaev/fitmatch/backend/internal/transport/http/errors"
)

type PartnersHandler struct {
	service *matchingsvc.Service
}

func NewPartnersHandler(service *matchingsvc.Service) *PartnersHandler {
	return &PartnersHandler{service: service}
}

func (h *PartnersHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	suggestions, err := h.service.FindPartners(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, partnersvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid partners request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to find partners")
		}
		return
	}

	items := make([]dto.PartnerSuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, dto.PartnerSuggestionResponse{
			Profile:         mapPublicProfile(s.Profile),
			Score:           s.Score,
			Reasons:         s.Reasons,
			SharedInterests: s.SharedInterests,
			DistanceKM:      s.DistanceKM,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.PartnersResponse{Items: items})
}

func mapPublicProfile(p model.PublicProfile) dto.PublicProfileResponse {
	return dto.PublicProfileResponse{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Age:          p.Age,
		FitnessLevel: p.FitnessLevel,
		Interests:    p.Interests,
		Availability: p.Availability,
		PhotoURL:     p.PhotoURL,
	}
}
