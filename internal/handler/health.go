package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	required map[string]HealthChecker
	optional map[string]HealthChecker
}

// NewHealthHandler creates a new HealthHandler. Pass nil for db or cache
// if they are not yet initialized.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	h := &HealthHandler{
		required: map[string]HealthChecker{},
		optional: map[string]HealthChecker{},
	}
	h.required["postgres"] = db
	h.required["redis"] = cache
	return h
}

// WithOptional adds a dependency whose failure is reported as "degraded"
// without failing readiness, such as the event broker or object store.
func (h *HealthHandler) WithOptional(name string, checker HealthChecker) *HealthHandler {
	h.optional[name] = checker
	return h
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint. No dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint. It returns 200 only when every
// required dependency answers.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.required)+len(h.optional))
	healthy := true

	for name, checker := range h.required {
		if checker == nil {
			checks[name] = "not configured"
			continue
		}
		if err := checker.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	for name, checker := range h.optional {
		if checker == nil {
			checks[name] = "disabled"
			continue
		}
		if err := checker.Ping(ctx); err != nil {
			checks[name] = "degraded: " + err.Error()
			continue
		}
		checks[name] = "ok"
	}

	status, statusCode := "ok", http.StatusOK
	if !healthy {
		status, statusCode = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
