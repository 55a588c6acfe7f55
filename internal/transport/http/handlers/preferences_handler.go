package handlers

import (
	"errors"
	"net/http"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	prefsvc "github.com/nvoropaev/fitmatch/backend/internal/services/preferences"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/dto"
	httperrors "github.com/nvoropaev/fitmatch/backend/internal/transport/http/errors"
)

type PreferencesHandler struct {
	service *prefsvc.Service
}

func NewPreferencesHandler(service *prefsvc.Service) *PreferencesHandler {
	return &PreferencesHandler{service: service}
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PREFERENCES_SERVICE_UNAVAILABLE", "preferences service is unavailable")
		return
	}

	prefs, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load preferences")
		return
	}

	httperrors.Write(w, http.StatusOK, mapPreferences(prefs))
}

func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PREFERENCES_SERVICE_UNAVAILABLE", "preferences service is unavailable")
		return
	}

	var req dto.PreferencesUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	prefs, err := h.service.Update(r.Context(), identity.UserID, prefsvc.UpdateInput{
		MaxDistanceKM:   req.MaxDistanceKM,
		MinFitnessLevel: req.MinFitnessLevel,
		MaxFitnessLevel: req.MaxFitnessLevel,
		AgeMin:          req.AgeMin,
		AgeMax:          req.AgeMax,
		MaxClassPrice:   req.MaxClassPrice,
		ClearPrice:      req.ClearPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, prefsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "preferences validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save preferences")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapPreferences(prefs))
}

func mapPreferences(p model.MatchPreferences) dto.PreferencesResponse {
	return dto.PreferencesResponse{
		MaxDistanceKM:   p.MaxDistanceKM,
		MinFitnessLevel: p.MinFitnessLevel,
		MaxFitnessLevel: p.MaxFitnessLevel,
		AgeMin:          p.AgeMin,
		AgeMax:          p.AgeMax,
		MaxClassPrice:   p.MaxClassPrice,
	}
}
