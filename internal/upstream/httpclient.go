package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/traincore/dashboard-bff/internal/logger"
	"github.com/traincore/dashboard-bff/middleware"
)

var upstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Core API requests issued by the BFF",
	},
	[]string{"method", "outcome"},
)

// ClientConfig holds timeouts for the shared core API client.
type ClientConfig struct {
	// ReadTimeout is used for GET requests
	ReadTimeout time.Duration
	// WriteTimeout is used for POST, PUT, PATCH, DELETE requests
	WriteTimeout time.Duration
}

// DefaultClientConfig returns sensible defaults
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Client is the one HTTP wrapper every typed core API client shares. It
// injects X-Request-ID from context, forwards the session bearer, enforces
// method-based timeouts, propagates trace context, and maps transport
// failures to the sentinel errors.
type Client struct {
	baseURL    string
	baseClient *http.Client
	config     ClientConfig
}

// NewClient creates the shared core API client for the given base URL,
// e.g. "http://core-api:8080".
func NewClient(baseURL string, config ClientConfig) *Client {
	return &Client{
		baseURL: baseURL,
		baseClient: &http.Client{
			// No global timeout - per-request timeouts are set in Do
			Timeout:   0,
			Transport: &middleware.TracingTransport{},
		},
		config: config,
	}
}

// centerPath builds the tenant-scoped path prefix for a session.
func (c *Client) centerPath(sess middleware.Session) string {
	return fmt.Sprintf("%s/api/v1/training-centers/%s", c.baseURL, sess.TrainingCenterID)
}

// Do executes a request against the core API. When the context already has a
// deadline (the scan flow sets its own budget) the method timeout is not
// applied on top.
func (c *Client) Do(ctx context.Context, sess middleware.Session, req *http.Request) (*http.Response, error) {
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		req.Header.Set(middleware.HeaderXRequestID, reqID)
	}
	if sess.Bearer != "" {
		req.Header.Set("Authorization", sess.Bearer)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		timeout := c.config.ReadTimeout
		if isWriteMethod(req.Method) {
			timeout = c.config.WriteTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req = req.WithContext(ctx)

	log := logger.Log.With().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", middleware.GetRequestID(ctx)).
		Logger()

	start := time.Now()
	resp, err := c.baseClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Warn().
			Err(err).
			Dur("duration", duration).
			Msg("upstream_request_failed")
		mapped := c.mapError(err)
		upstreamRequestsTotal.WithLabelValues(req.Method, outcomeOf(mapped)).Inc()
		return nil, mapped
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("upstream_request_completed")
	upstreamRequestsTotal.WithLabelValues(req.Method, "ok").Inc()

	return resp, nil
}

// mapError converts low-level errors to the sentinel errors
func (c *Client) mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	// Connection refused, DNS errors, etc.
	return ErrUnavailable
}

func outcomeOf(err error) string {
	if errors.Is(err, ErrTimeout) {
		return "timeout"
	}
	return "unavailable"
}

// isWriteMethod returns true for HTTP methods that modify state
func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// getJSON issues a GET and decodes the data envelope into out.
func getJSON[T any](ctx context.Context, c *Client, sess middleware.Session, url string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zero, err
	}

	resp, err := c.Do(ctx, sess, req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return zero, ErrNotFound
	case http.StatusUnauthorized:
		return zero, ErrUnauthorized
	default:
		return zero, decodeError(resp)
	}

	var wrapper dataEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return zero, err
	}
	return wrapper.Data, nil
}

// writeJSON issues a POST/PUT with a JSON body and decodes the envelope.
func writeJSON[T any](ctx context.Context, c *Client, sess middleware.Session, method, url string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return zero, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return zero, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(ctx, sess, req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNoContent:
		return zero, nil
	case http.StatusNotFound:
		return zero, ErrNotFound
	case http.StatusUnauthorized:
		return zero, ErrUnauthorized
	default:
		return zero, decodeError(resp)
	}

	var wrapper dataEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return zero, err
	}
	return wrapper.Data, nil
}

// deleteReq issues a DELETE, tolerating 200 and 204.
func deleteReq(ctx context.Context, c *Client, sess middleware.Session, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(ctx, sess, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return decodeError(resp)
	}
}
