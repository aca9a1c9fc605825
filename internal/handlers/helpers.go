package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aieng/conversations-api/internal/api"
	"github.com/aieng/conversations-api/internal/services"
	"github.com/aieng/conversations-api/internal/validation"
)

// decodeBody decodes and validates a JSON request body. Unknown fields are
// rejected, matching the strict request schemas. Returns false after
// writing the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		api.WriteError(w, http.StatusUnprocessableEntity, "Request validation failed",
			[]api.ValidationIssue{{Field: "body", Message: err.Error()}})
		return false
	}

	if err := validation.Validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			issues := make([]api.ValidationIssue, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				issues = append(issues, api.ValidationIssue{
					Field:   fieldErr.Field(),
					Message: "failed validation on '" + fieldErr.Tag() + "'",
				})
			}
			api.WriteError(w, http.StatusUnprocessableEntity, "Request validation failed", issues)
			return false
		}
		api.WriteError(w, http.StatusUnprocessableEntity, "Request validation failed", nil)
		return false
	}

	return true
}

// pathID parses the {id} path variable. Returns false after writing the
// error response.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.WriteError(w, http.StatusUnprocessableEntity, "Request validation failed",
			[]api.ValidationIssue{{Field: "id", Message: "must be a valid uuid"}})
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps workflow errors onto the error contract exactly
// once. Unanticipated errors become a 500 with no internal detail leaked;
// the log retains the cause.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrModelVersionNotFound),
		errors.Is(err, services.ErrConversationNotFound):
		api.WriteError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrEmailConflict):
		api.WriteError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrProviderNotSupported):
		api.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrProviderUnavailable):
		api.WriteError(w, http.StatusServiceUnavailable, "LLM provider unavailable", nil)
	default:
		logger.Error("unhandled_service_error", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}
