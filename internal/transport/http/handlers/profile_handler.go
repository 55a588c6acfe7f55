package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	profilesvc "github.com/nvoropaev/fitmatch/backend/internal/services/profiles"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/dto"
	httperrors "github.com/nvoropaev/fitmatch/backend/internal/transport/http/errors"
)

const birthdateLayout = "2006-01-02"

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
				Code:    "PROFILE_NOT_FOUND",
				Message: "profile is not filled in yet",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapOwnProfile(profile))
}

func (h *ProfileHandler) Core(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileCoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	var birthdate *time.Time
	if req.Birthdate != "" {
		parsed, err := time.Parse(birthdateLayout, req.Birthdate)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "birthdate must be YYYY-MM-DD")
			return
		}
		birthdate = &parsed
	}

	err := h.service.UpdateCore(r.Context(), identity.UserID, profilesvc.CoreInput{
		DisplayName:  req.DisplayName,
		Birthdate:    birthdate,
		FitnessLevel: req.FitnessLevel,
		Interests:    req.Interests,
		Availability: req.Availability,
		Privacy: model.PrivacySettings{
			HideAge:          req.Privacy.HideAge,
			HideLocation:     req.Privacy.HideLocation,
			HideFitnessLevel: req.Privacy.HideFitnessLevel,
			HideAvailability: req.Privacy.HideAvailability,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileCoreResponse{OK: true})
}

func (h *ProfileHandler) Location(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "lat and lon are required")
		return
	}

	if err := h.service.UpdateLocation(r.Context(), identity.UserID, *req.Lat, *req.Lon); err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid lat/lon")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update location")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LocationResponse{OK: true})
}

func mapOwnProfile(p model.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Age:          p.Age(time.Now()),
		FitnessLevel: p.FitnessLevel,
		Interests:    p.Interests,
		Availability: p.Availability,
		Lat:          p.Lat,
		Lon:          p.Lon,
		Privacy: dto.PrivacyPayload{
			HideAge:          p.Privacy.HideAge,
			HideLocation:     p.Privacy.HideLocation,
			HideFitnessLevel: p.Privacy.HideFitnessLevel,
			HideAvailability: p.Privacy.HideAvailability,
		},
	}
	if p.Birthdate != nil {
		resp.Birthdate = p.Birthdate.Format(birthdateLayout)
	}
	return resp
}
