package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler handles GET /health requests.
type HealthHandler struct {
	checks []secondary.HealthChecker
}

// NewHealthHandler creates a health check handler with the given checkers.
func NewHealthHandler(checks []secondary.HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// ServeHTTP runs all health checks in parallel, each bounded by
// healthCheckTimeout, and reports the aggregate status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		healthy = true
		checks  = make(map[string]string, len(h.checks))
	)

	for _, check := range h.checks {
		wg.Add(1)
		go func(check secondary.HealthChecker) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			err := check.Check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				checks[check.Name()] = err.Error()
				return
			}
			checks[check.Name()] = "ok"
		}(check)
	}
	wg.Wait()

	if !healthy {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Checks: checks})
		return
	}
	respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Checks: checks})
}
