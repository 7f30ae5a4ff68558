package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/traincore/dashboard-bff/internal/logger"
	"github.com/traincore/dashboard-bff/middleware"
)

// New creates a reverse proxy that rewrites paths and propagates context
// headers. Used to mount the auth provider's endpoints under the dashboard
// origin so the browser never talks to it cross-origin.
//
//	targetHost:     "http://auth-service:8080"
//	stripPrefix:    "/api/auth"
//	upstreamPrefix: "/auth/v1"
func New(targetHost, stripPrefix, upstreamPrefix string) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(targetHost)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	originalDirector := proxy.Director

	proxy.Director = func(req *http.Request) {
		originalDirector(req)

		req.Host = target.Host

		// /api/auth/login -> /auth/v1/login
		if strings.HasPrefix(req.URL.Path, stripPrefix) {
			req.URL.Path = upstreamPrefix + strings.TrimPrefix(req.URL.Path, stripPrefix)
		}

		reqID := middleware.GetRequestID(req.Context())
		if reqID != "" {
			req.Header.Set(middleware.HeaderXRequestID, reqID)
		}
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		reqID := middleware.GetRequestID(r.Context())

		logger.Log.Error().
			Err(err).
			Str("target", targetHost).
			Str("request_id", reqID).
			Msg("upstream_proxy_error")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":{"code":"upstream_unavailable","message":"upstream service unreachable","request_id":"` + reqID + `"}}`))
	}

	return proxy, nil
}
