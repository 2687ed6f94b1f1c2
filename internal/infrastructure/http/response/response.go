// Package response holds the JSON envelope helpers shared by every HTTP
// handler: success envelopes and the domain-error-to-status mapping.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/jobqueue/internal/domain"
	"github.com/rezkam/jobqueue/internal/queue"
)

// OK sends a 200 OK response with JSON data.
func OK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode success response", "error", err)
	}
}

// Created sends a 201 Created response with JSON data.
func Created(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode created response", "error", err)
	}
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Error(w http.ResponseWriter, code, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_ARGUMENT", message, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, "RATE_LIMITED", message, http.StatusTooManyRequests)
}

// InternalError logs the real cause server-side and returns a generic
// message to the client.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// FromDomainError maps a submission/store error to the matching HTTP
// response shape.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var rlErr queue.RateLimitedError
	switch {
	case errors.As(err, &rlErr):
		TooManyRequests(w, rlErr.Message())
	case errors.Is(err, domain.ErrInvalidArgument):
		BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "job")
	default:
		InternalError(w, r, err)
	}
}
