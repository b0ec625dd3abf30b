package handler

import (
	"net/http"

	"pdf-converter/internal/domain"
)

// HealthHandler serves the liveness and readiness checks
type HealthHandler struct {
	service string
	checker domain.ConverterChecker
}

// NewHealthHandler creates a new health handler. checker may be nil.
func NewHealthHandler(serviceName string, checker domain.ConverterChecker) *HealthHandler {
	return &HealthHandler{service: serviceName, checker: checker}
}

// Health reports liveness with no dependencies
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": h.service})
}

// Ready reports whether the converter can currently be run
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		if err := h.checker.Check(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
