package handler

// RESPONSE HELPERS:
// These standardise JSON responses and error mapping so every handler
// produces the same shapes:
//
//	errors:      {"error":"not_found","message":"post not found with id x"}
//	validation:  {"errors":[{"field":"email","message":"..."}, ...]}
//
// The frontend always knows what fields to expect regardless of status.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnector/internal/apperror"
)

// ErrorResponse is the standard single-error format.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type (e.g. "not_found")
	Message string `json:"message"` // human-readable description
}

// FieldError is one entry in a validation failure list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse enumerates every field that failed validation, so a
// form can annotate all of its inputs from one response.
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

// writeJSON sends a JSON response. Headers and status must be set before the
// first body write — once Encode writes, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeValidationErrors sends a 400 with the enumerated field failures.
func writeValidationErrors(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, ValidationResponse{Errors: errs})
}

// writeError maps a domain error to an HTTP status and sends it.
//
// This is the only place domain errors meet HTTP. The service layer returns
// apperror values; errors.Is walks the wrap chain (each AppError implements
// Unwrap) to find the sentinel, and errors.As extracts the client-safe
// message.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — generic 500. The raw message might contain SQL or
	// file paths; never expose it.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}
