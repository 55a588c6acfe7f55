package handlers

import (
	"errors"
	"net/http"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
	"github.com/nvoropaev/fitmatch/backend/internal/pkg/validate"
	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	classessvc "github.com/nvoropaev/fitmatch/backend/internal/services/classes"
	matchingsvc "github.com/nvoropaev/fitmatch/backend/internal/services/matching"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/dto"
	httperrors "github.com/nvoropaev/fitmatch/backend/internal/transport/http/errors"
)

type ClassesHandler struct {
	matching *matchingsvc.Service
	classes  *classessvc.Service
}

func NewClassesHandler(matching *matchingsvc.Service, classes *classessvc.Service) *ClassesHandler {
	return &ClassesHandler{matching: matching, classes: classes}
}

func (h *ClassesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.matching == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	suggestions, err := h.matching.FindClasses(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, classessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid classes request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to find classes")
		}
		return
	}

	items := make([]dto.ClassSuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, dto.ClassSuggestionResponse{
			Class:      mapClass(s.Class),
			Score:      s.Score,
			Fit:        s.Fit,
			Reasons:    s.Reasons,
			DistanceKM: s.DistanceKM,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.ClassesResponse{Items: items})
}

func (h *ClassesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.classes == nil {
		writeInternal(w, "CLASSES_SERVICE_UNAVAILABLE", "classes service is unavailable")
		return
	}

	var req dto.ClassCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if !validate.Required(req.Title) || req.Lat == nil || req.Lon == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "title, lat and lon are required")
		return
	}

	id, err := h.classes.CreateClass(r.Context(), model.Class{
		Title:     req.Title,
		Lat:       *req.Lat,
		Lon:       *req.Lon,
		Intensity: req.Intensity,
		Price:     req.Price,
		StartsAt:  req.StartsAt,
		Tags:      req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, classessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "class validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create class")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ClassCreateResponse{ID: id})
}

func mapClass(c model.Class) dto.ClassResponse {
	return dto.ClassResponse{
		ID:        c.ID,
		Title:     c.Title,
		Lat:       c.Lat,
		Lon:       c.Lon,
		Intensity: c.Intensity,
		Price:     c.Price,
		StartsAt:  c.StartsAt,
		Tags:      c.Tags,
	}
}
