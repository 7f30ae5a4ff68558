package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/traincore/dashboard-bff/internal/domain"
)

var (
	ErrTimeout      = errors.New("upstream_timeout")
	ErrUnavailable  = errors.New("upstream_unavailable")
	ErrNotFound     = errors.New("resource_not_found")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError carries a non-2xx upstream response the BFF can forward
// verbatim to the dashboard.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// ScanTimeoutError distinguishes an OCR scan that blew its budget from a
// generic failure; the budget differs by file kind and the dashboard shows
// a kind-specific message.
type ScanTimeoutError struct {
	Kind   string // "image" or "pdf"
	Budget time.Duration
}

func (e *ScanTimeoutError) Error() string {
	return fmt.Sprintf("document scan timed out: %s processing exceeded %s", e.Kind, e.Budget)
}

func decodeError(resp *http.Response) error {
	var apiErr domain.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Code != "" {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Code:       apiErr.Error.Code,
			Message:    apiErr.Error.Message,
		}
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Code:       "upstream_error",
		Message:    fmt.Sprintf("unexpected status: %d", resp.StatusCode),
	}
}
