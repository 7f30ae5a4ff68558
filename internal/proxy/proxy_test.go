package proxy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/traincore/dashboard-bff/internal/proxy"
	"github.com/traincore/dashboard-bff/middleware"
)

func TestProxy_PathRewriting(t *testing.T) {
	var receivedPath string

	fakeAuth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer fakeAuth.Close()

	authProxy, err := proxy.New(fakeAuth.URL, "/api/auth", "/auth/v1")
	assert.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api/auth", authProxy)

	testCases := []struct {
		name         string
		requestPath  string
		expectedPath string
	}{
		{"login endpoint", "/api/auth/login", "/auth/v1/login"},
		{"refresh endpoint", "/api/auth/refresh", "/auth/v1/refresh"},
		{"nested path", "/api/auth/oauth/google/callback", "/auth/v1/oauth/google/callback"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			receivedPath = ""
			req := httptest.NewRequest("POST", tc.requestPath, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedPath, receivedPath)
		})
	}
}

func TestProxy_PropagatesRequestID(t *testing.T) {
	var receivedID string

	fakeAuth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedID = r.Header.Get(middleware.HeaderXRequestID)
		w.WriteHeader(http.StatusOK)
	}))
	defer fakeAuth.Close()

	authProxy, err := proxy.New(fakeAuth.URL, "/api/auth", "/auth/v1")
	assert.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req = req.WithContext(middleware.SetRequestIDForTest(req.Context(), "req-42"))
	w := httptest.NewRecorder()
	authProxy.ServeHTTP(w, req)

	assert.Equal(t, "req-42", receivedID)
}

func TestProxy_UpstreamDownReturnsEnvelope(t *testing.T) {
	// unroutable target
	authProxy, err := proxy.New("http://127.0.0.1:1", "/api/auth", "/auth/v1")
	assert.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	w := httptest.NewRecorder()
	authProxy.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "upstream_unavailable")
}
