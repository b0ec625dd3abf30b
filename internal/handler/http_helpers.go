package handler

import (
	"encoding/json"
	"net/http"

	"pdf-converter/internal/domain"
	apperrors "pdf-converter/pkg/errors"
)

type contextKey string

const (
	requestIDContextKey contextKey = "request_id"
	loggerContextKey    contextKey = "logger"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Output string `json:"output,omitempty"`
}

// GetRequestIDFromContext extracts the request ID assigned by RequestMiddleware
func GetRequestIDFromContext(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(requestIDContextKey).(string)
	return id, ok
}

// requestLogger returns the request-scoped logger, or fallback when none was attached
func requestLogger(r *http.Request, fallback domain.Logger) domain.Logger {
	if l, ok := r.Context().Value(loggerContextKey).(domain.Logger); ok {
		return l
	}
	return fallback
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, kind, detail string) {
	writeJSON(w, statusCode, errorResponse{Error: kind, Detail: detail})
}

// writeAppError maps err onto the structured error payload.
// Errors outside the taxonomy are reported as internal errors without their text.
func writeAppError(w http.ResponseWriter, err error) *apperrors.AppError {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("internal server error", err)
	}
	writeJSON(w, appErr.StatusCode, errorResponse{
		Error:  string(appErr.Type),
		Detail: appErr.Message,
		Output: appErr.Output,
	})
	return appErr
}
