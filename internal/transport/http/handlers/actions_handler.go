package handlers

import (
	"errors"
	"net/http"

	"github.com/nvoropaev/fitmatch/backend/internal/pkg/validate"
	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	matchingsvc "github.com/nvoropaev/fitmatch/backend/internal/services/matching"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/dto"
	httperrors "github.com/nvoropaev/fitmatch/backend/internal/transport/http/errors"
)

type ActionsHandler struct {
	service *matchingsvc.Service
}

func NewActionsHandler(service *matchingsvc.Service) *ActionsHandler {
	return &ActionsHandler{service: service}
}

func (h *ActionsHandler) Post(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	var req dto.ActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if !validate.PositiveID(req.TargetID) || !validate.Required(req.Action) {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and action are required")
		return
	}

	result, err := h.service.RecordAction(r.Context(), identity.UserID, req.TargetID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, matchingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid action request")
		case errors.Is(err, matchingsvc.ErrUnsupportedAction):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported action")
		default:
			if tf, ok := matchingsvc.IsTooFast(err); ok {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "TOO_FAST",
					Message:       "too many actions, slow down",
					RetryAfterSec: tf.RetryAfter(),
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to process action")
		}
		return
	}

	resp := dto.ActionResponse{
		OK:           true,
		Action:       string(result.Action),
		MatchCreated: result.MatchCreated,
	}
	if result.Match != nil {
		detail := mapMatchDetail(*result.Match)
		resp.Match = &detail
	}

	httperrors.Write(w, http.StatusOK, resp)
}
