package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer. They classify a failure the way the
// error report pages group them: user input, missing reference data,
// chart-of-accounts setup, or storage.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicate     = errors.New("duplicate entry")
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("configuration error")
	ErrPersistence   = errors.New("persistence failure")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "not-found", "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "duplicate", "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "validation", "Validation Failed", err.Error())
	case errors.Is(err, ErrConfiguration):
		// Setup faults are operator problems, but the submitting user
		// still gets a readable message telling them what is missing.
		Problem(w, http.StatusInternalServerError, "configuration", "Configuration Error", err.Error())
	case errors.Is(err, ErrPersistence):
		Problem(w, http.StatusInternalServerError, "persistence", "Storage Error", "")
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "forbidden", "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "internal", "Internal Error", "")
	}
}
