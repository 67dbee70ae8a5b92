package internal

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultHealthTimeout = 5 * time.Second

	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// CheckFunc is a readiness probe, e.g. db.Healthcheck(pool).
type CheckFunc func(ctx context.Context) error

type healthChecks map[string]CheckFunc

type healthResponse struct {
	Checks map[string]healthCheck `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

type healthCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// livenessHandler always responds OK while the process runs.
func livenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, r, http.StatusOK, &healthResponse{Status: statusHealthy})
	}
}

// readinessHandler runs every check and answers 503 if any fails.
func readinessHandler(checks healthChecks, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, defaultHealthTimeout, log)
		status := http.StatusOK
		if resp.Status == statusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, r, status, resp)
	}
}

// runChecks executes all checks in parallel under a shared timeout.
func runChecks(ctx context.Context, checks healthChecks, timeout time.Duration, log *slog.Logger) *healthResponse {
	if len(checks) == 0 {
		return &healthResponse{Status: statusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]healthCheck, len(checks))
		status  = statusHealthy
	)
	for name, check := range checks {
		g.Go(func() error {
			result := healthCheck{Status: statusHealthy}
			if err := check(ctx); err != nil {
				result = healthCheck{Status: statusUnhealthy, Error: err.Error()}
				log.WarnContext(ctx, "health check failed", slog.String("check", name), slog.String("error", err.Error()))
			}

			mu.Lock()
			defer mu.Unlock()
			results[name] = result
			if result.Status == statusUnhealthy {
				status = statusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return &healthResponse{Status: status, Checks: results}
}

func writeHealth(w http.ResponseWriter, r *http.Request, status int, resp *healthResponse) {
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		if h, err := jsonResponse(status, resp); err == nil {
			h.ServeHTTP(w, r)
			return
		}
	}
	w.Header().Set("Content-Type", ContentTypeText)
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte("OK"))
		return
	}
	_, _ = w.Write([]byte("Service Unavailable"))
}
