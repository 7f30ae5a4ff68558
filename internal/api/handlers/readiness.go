package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReadinessChecker checks if a dependency is ready.
type ReadinessChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HTTPReadinessChecker probes an HTTP endpoint for readiness.
type HTTPReadinessChecker struct {
	name string
	url  string
}

func NewHTTPReadinessChecker(name, url string) *HTTPReadinessChecker {
	return &HTTPReadinessChecker{name: name, url: url}
}

func (c *HTTPReadinessChecker) Name() string { return c.name }

func (c *HTTPReadinessChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &CheckError{Status: resp.StatusCode}
	}
	return nil
}

// RedisReadinessChecker pings the cache/rate-limit backend. A nil client
// reports healthy: Redis is optional and the service degrades without it.
type RedisReadinessChecker struct {
	rdb *redis.Client
}

func NewRedisReadinessChecker(rdb *redis.Client) *RedisReadinessChecker {
	return &RedisReadinessChecker{rdb: rdb}
}

func (c *RedisReadinessChecker) Name() string { return "redis" }

func (c *RedisReadinessChecker) Check(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

type CheckError struct {
	Status int
}

func (e *CheckError) Error() string {
	return "unhealthy status"
}

// ReadinessHandler handles /readyz and /healthz endpoints.
type ReadinessHandler struct {
	checkers []ReadinessChecker
}

func NewReadinessHandler(checkers ...ReadinessChecker) *ReadinessHandler {
	return &ReadinessHandler{checkers: checkers}
}

// Healthz is a simple liveness check (process is alive).
func (h *ReadinessHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readyz checks all dependencies in parallel and returns detailed status.
func (h *ReadinessHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	type checkResult struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	results := make([]checkResult, len(h.checkers))
	var wg sync.WaitGroup

	for i, checker := range h.checkers {
		wg.Add(1)
		go func(idx int, c ReadinessChecker) {
			defer wg.Done()
			result := checkResult{Name: c.Name(), Status: "healthy"}
			if err := c.Check(ctx); err != nil {
				result.Status = "unhealthy"
				result.Error = err.Error()
			}
			results[idx] = result
		}(i, checker)
	}

	wg.Wait()

	resp := struct {
		Status string        `json:"status"`
		Checks []checkResult `json:"checks"`
	}{
		Status: "ready",
		Checks: results,
	}

	status := http.StatusOK
	for _, result := range results {
		if result.Status != "healthy" {
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
