package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/middleware"
)

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendData wraps payload with {"data": ...}
func sendData(w http.ResponseWriter, status int, payload any) {
	sendJSON(w, status, map[string]any{"data": payload})
}

func sendError(w http.ResponseWriter, r *http.Request, code string, message string, status int) {
	resp := domain.APIError{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.RequestID = middleware.GetRequestID(r.Context())

	sendJSON(w, status, resp)
}

// handleUpstreamError maps clients' sentinel errors and StatusErrors onto
// the dashboard error envelope.
func handleUpstreamError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	var scanErr *upstream.ScanTimeoutError
	if errors.As(err, &scanErr) {
		sendError(w, r, "scan_timeout", scanErr.Error(), http.StatusGatewayTimeout)
		return
	}

	switch {
	case errors.Is(err, upstream.ErrNotFound):
		sendError(w, r, "resource_not_found", defaultMsg+": not found", http.StatusNotFound)
		return
	case errors.Is(err, upstream.ErrUnauthorized):
		sendError(w, r, "unauthorized", "upstream rejected credentials", http.StatusUnauthorized)
		return
	case errors.Is(err, upstream.ErrTimeout):
		sendError(w, r, "upstream_timeout", defaultMsg+": core API timeout", http.StatusGatewayTimeout)
		return
	}

	var se *upstream.StatusError
	if errors.As(err, &se) {
		sendError(w, r, se.Code, se.Message, se.StatusCode)
		return
	}

	sendError(w, r, "internal_error", defaultMsg, http.StatusBadGateway)
}

// mustSession fetches the Session; RequireSession guarantees it on the
// authenticated route groups, this is the belt for direct handler tests.
func mustSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		sendError(w, r, "unauthorized", "authentication required", http.StatusUnauthorized)
	}
	return sess, ok
}
