package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	photossvc "github.com/nvoropaev/fitmatch/backend/internal/services/photos"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/dto"
	httperrors "github.com/nvoropaev/fitmatch/backend/internal/transport/http/errors"
)

const maxPhotoUploadSize = 10 << 20 // 10 MiB

type PhotoHandler struct {
	service *photossvc.Service
}

func NewPhotoHandler(service *photossvc.Service) *PhotoHandler {
	return &PhotoHandler{service: service}
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTO_SERVICE_UNAVAILABLE", "photo service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.service.Upload(r.Context(), identity.UserID, file, header.Size, contentType)
	if err != nil {
		handlePhotoError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoResponse{URL: url})
}

func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTO_SERVICE_UNAVAILABLE", "photo service is unavailable")
		return
	}

	url, err := h.service.SignedURL(r.Context(), identity.UserID)
	if err != nil {
		handlePhotoError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoResponse{URL: url})
}

func handlePhotoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, photossvc.ErrBadContent):
		writeBadRequest(w, "VALIDATION_ERROR", "unsupported photo content type")
	case errors.Is(err, photossvc.ErrTooLarge):
		writeBadRequest(w, "VALIDATION_ERROR", "photo is too large")
	case errors.Is(err, photossvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo request")
	case errors.Is(err, photossvc.ErrPhotoNotFound):
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
			Code:    "PHOTO_NOT_FOUND",
			Message: "no photo uploaded yet",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "photo operation failed")
	}
}
