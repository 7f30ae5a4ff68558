package middleware

import "context"

// SetRequestIDForTest is a helper to inject a request ID into the context for testing.
// It bypasses the HTTP middleware verification.
func SetRequestIDForTest(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, id)
}

// SetSessionForTest injects a Session into the context for handler tests.
func SetSessionForTest(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, ctxKeySession{}, sess)
}
