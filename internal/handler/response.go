package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/josh-kwaku/learning-backend/internal/logging"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// appErrorFor maps a service error onto its HTTP shape. ok is false for
// errors that are not domain sentinels.
func appErrorFor(err error) (appErr *AppError, ok bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrResourceNotFound, true
	case errors.Is(err, domain.ErrForbidden):
		return ErrForbidden, true
	case errors.Is(err, domain.ErrNotAssociated):
		return ErrNotAssociated, true
	case errors.Is(err, domain.ErrInvalidState):
		return ErrInvalidState, true
	case errors.Is(err, domain.ErrCapacityExceeded):
		return ErrCapacityExceeded, true
	case errors.Is(err, domain.ErrAlreadyEnrolled):
		return ErrAlreadyEnrolled, true
	case errors.Is(err, domain.ErrVersionConflict):
		return ErrVersionConflict, true
	case errors.Is(err, domain.ErrInvalidInstructor):
		return ErrInvalidInstructor, true
	case errors.Is(err, domain.ErrEmailTaken):
		return ErrEmailTaken, true
	case errors.Is(err, domain.ErrUsernameTaken):
		return ErrUsernameTaken, true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return ErrInvalidCredentials, true
	case errors.Is(err, domain.ErrAccountInactive):
		return ErrAccountInactive, true
	case errors.Is(err, domain.ErrInvalidRequest):
		return ErrInvalidRequest, true
	}
	return ErrInternalError, false
}

// fail logs err with the request logger and writes the mapped response.
// Expected domain failures log at warn, everything else at error.
func fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log := logging.FromContext(r.Context())
	appErr, ok := appErrorFor(err)
	if ok {
		log.Warn(msg, "error", err, "code", appErr.Code)
	} else {
		log.Error(msg, "error", err)
	}
	RespondAppError(w, appErr, nil)
}
