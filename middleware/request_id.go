package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-Id"

type ctxKeyRequestID struct{}

// RequestID establishes a correlation id for the request. The BFF generates
// one when the dashboard did not send it, and the downstream client reads it
// back out of the context when calling the core API.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)

		ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(ctxKeyRequestID{}).(string); ok {
		return reqID
	}
	return ""
}
