package middleware

import "net/http"

// HeaderXConfirm must accompany every destructive request. The dashboard
// sends it after its confirmation dialog; any caller skipping the dialog
// cannot delete anything by accident.
const HeaderXConfirm = "X-Confirm"

// RequireConfirmation rejects destructive requests that lack the X-Confirm
// header with 409 so the client can prompt and retry.
func RequireConfirmation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderXConfirm) != "true" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":{"code":"confirmation_required","message":"this action cannot be undone and must be confirmed","request_id":"` + GetRequestID(r.Context()) + `"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
