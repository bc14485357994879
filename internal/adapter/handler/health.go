package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rl1809/coffee-service/internal/port"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck names a dependency probed for readiness.
type HealthCheck struct {
	Name    string
	Checker port.HealthChecker
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// runChecks pings every dependency concurrently and returns the failures
// keyed by name.
func runChecks(ctx context.Context, checks []HealthCheck) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures = make(map[string]error)
	)
	for _, check := range checks {
		wg.Add(1)
		go func(check HealthCheck) {
			defer wg.Done()
			if err := check.Checker.Ping(ctx); err != nil {
				mu.Lock()
				failures[check.Name] = err
				mu.Unlock()
			}
		}(check)
	}
	wg.Wait()

	return failures
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *HTTPHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "alive"})
}

func (h *HTTPHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	failures := runChecks(r.Context(), h.checks)

	resp := HealthResponse{Status: "ready", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for _, check := range h.checks {
		if err, failed := failures[check.Name]; failed {
			resp.Checks[check.Name] = err.Error()
			continue
		}
		resp.Checks[check.Name] = "ok"
	}
	if len(failures) > 0 {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
