package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session carries the authenticated dashboard user. Every upstream call is
// derived from it: the bearer is forwarded verbatim and the training-center
// id selects the core API path prefix. Handlers never re-derive auth state
// on their own.
type Session struct {
	UserID           uuid.UUID
	TrainingCenterID uuid.UUID
	Email            string
	Bearer           string
}

type ctxKeySession struct{}

// Auth parses the Authorization bearer token and, when valid, stores a
// Session in the context. An absent or invalid token is not rejected here:
// route groups that need auth call RequireSession.
func Auth(secret, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}

			claims := jwt.MapClaims{}
			opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
			if issuer != "" {
				opts = append(opts, jwt.WithIssuer(issuer))
			}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, opts...)
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			sess := Session{Bearer: authHeader}

			uidStr, _ := claims["uid"].(string)
			if uidStr == "" {
				uidStr, _ = claims["sub"].(string)
			}
			if uid, err := uuid.Parse(uidStr); err == nil {
				sess.UserID = uid
			}
			if tcStr, _ := claims["training_center_id"].(string); tcStr != "" {
				if tc, err := uuid.Parse(tcStr); err == nil {
					sess.TrainingCenterID = tc
				}
			}
			sess.Email, _ = claims["email"].(string)

			if sess.UserID == uuid.Nil || sess.TrainingCenterID == uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that did not establish a Session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":"unauthorized","message":"authentication required","request_id":"` + GetRequestID(r.Context()) + `"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetSession(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(ctxKeySession{}).(Session)
	return sess, ok
}
