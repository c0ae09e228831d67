package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthHandlers serves the liveness and readiness endpoints.
type HealthHandlers struct {
	pinger  func(ctx context.Context) error
	clock   func() time.Time
	started time.Time
}

// HealthOption customises the health handlers.
type HealthOption func(*HealthHandlers)

// NewHealthHandlers constructs health handlers. Without a pinger, readiness
// reports ready unconditionally.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{clock: time.Now}
	h.started = h.clock()
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithHealthPinger sets the dependency probe run by /readyz, typically a
// database ping.
func WithHealthPinger(pinger func(ctx context.Context) error) HealthOption {
	return func(h *HealthHandlers) {
		h.pinger = pinger
	}
}

// WithHealthClock overrides the time source, for tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		h.clock = clock
		h.started = clock()
	}
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    h.clock().Sub(h.started).String(),
		"timestamp": h.clock().UTC().Format(time.RFC3339),
	})
}

// Readyz reports whether the service can reach its dependencies.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger(r.Context()); err != nil {
			writeJSONResponse(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": "ready"})
}
