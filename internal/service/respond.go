package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitproof/splitproof/internal/auth"
	"github.com/splitproof/splitproof/internal/engine"
	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/money"
	"github.com/splitproof/splitproof/internal/storage"
)

// ErrorBody is the canonical error payload returned by the API.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Subject string `json:"subject,omitempty"`
}

// respondJSON writes v to the response writer as JSON.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message, subject string) {
	respondJSON(w, status, map[string]any{
		"error": ErrorBody{Code: code, Message: message, Subject: subject},
	})
}

// writeError maps domain errors onto HTTP status codes. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "VALIDATION", validationErr.Reason, validationErr.Subject)
	case errors.Is(err, money.ErrInvalidAllocation):
		respondError(w, http.StatusBadRequest, "INVALID_ALLOCATION", err.Error(), "")
	case errors.Is(err, engine.ErrUnreconcilable):
		respondError(w, http.StatusUnprocessableEntity, "UNRECONCILABLE", err.Error(), "")
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", "")
	case errors.Is(err, auth.ErrEmailExists):
		respondError(w, http.StatusConflict, "EMAIL_EXISTS", err.Error(), "")
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, "WEAK_PASSWORD", err.Error(), "")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error(), "")
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), "")
	default:
		slog.Error("internal error", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", "")
	}
}
