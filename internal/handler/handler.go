// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/contactsmgr/contacts/internal/handler/dto"
	"github.com/contactsmgr/contacts/internal/service"
)

// Handler serves the router-level fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeFile sends data as a download.
func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// redirect answers a form post the way a browser expects: 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// formErrors extracts field messages from a validation failure.
// ok is false for any other error.
func formErrors(err error) (errs []dto.FormError, ok bool) {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return nil, false
	}
	errs = make([]dto.FormError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		errs = append(errs, dto.FormError{Field: f.Field, Message: f.Message})
	}
	return errs, true
}

// handleServiceError maps service errors that no page-specific branch
// handled to a JSON error.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var rl *service.RateLimitError
	switch {
	case errors.As(err, &rl):
		w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts")
	case errors.Is(err, service.ErrArgumentRequired):
		writeError(w, http.StatusBadRequest, "ARGUMENT_REQUIRED", "Request body is required")
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, service.ErrPersonNotFound):
		writeError(w, http.StatusNotFound, "PERSON_NOT_FOUND", "Person not found")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid Email or Password")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
