// Package health provides liveness and readiness HTTP probes. Readiness runs
// named checks in parallel with a bounded timeout; any failure makes the
// service report unavailable.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc probes one dependency. Healthcheck closures from the db package
// satisfy this signature directly.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to probe functions.
type Checks map[string]CheckFunc

type probeResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type probeResponse struct {
	Status string                 `json:"status"`
	Checks map[string]probeResult `json:"checks,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Liveness always reports OK: the process is up and serving.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProbe(w, http.StatusOK, probeResponse{Status: statusHealthy})
	}
}

// Readiness runs every check concurrently and reports 503 when any fails.
// Checks share a single timeout so a stuck dependency cannot hang the probe.
func Readiness(checks Checks, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			results = make(map[string]probeResult, len(checks))
		)
		for name, check := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result := probeResult{Status: statusHealthy}
				if err := check(ctx); err != nil {
					result = probeResult{Status: statusUnhealthy, Error: err.Error()}
				}
				mu.Lock()
				results[name] = result
				mu.Unlock()
			}()
		}
		wg.Wait()

		resp := probeResponse{Status: statusHealthy, Checks: results}
		code := http.StatusOK
		for _, r := range results {
			if r.Status != statusHealthy {
				resp.Status = statusUnhealthy
				code = http.StatusServiceUnavailable
				break
			}
		}
		writeProbe(w, code, resp)
	}
}

func writeProbe(w http.ResponseWriter, status int, resp probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
