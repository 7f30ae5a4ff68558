package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func sessionProbe() (http.Handler, *Session, *bool) {
	var got Session
	var present bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, present = GetSession(r.Context())
	})
	return h, &got, &present
}

func TestAuth_ValidToken(t *testing.T) {
	userID := uuid.New()
	centerID := uuid.New()

	token := signToken(t, jwt.MapClaims{
		"uid":                userID.String(),
		"training_center_id": centerID.String(),
		"email":              "operator@example.com",
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	probe, got, present := sessionProbe()
	h := Auth(testSecret, "")(probe)

	req := httptest.NewRequest("GET", "/api/attendees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, *present)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, centerID, got.TrainingCenterID)
	assert.Equal(t, "operator@example.com", got.Email)
	assert.Equal(t, "Bearer "+token, got.Bearer)
}

func TestAuth_MissingTrainingCenterYieldsNoSession(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"uid": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	probe, _, present := sessionProbe()
	h := Auth(testSecret, "")(probe)

	req := httptest.NewRequest("GET", "/api/attendees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, *present)
}

func TestAuth_BadSignatureYieldsNoSession(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":                uuid.New().String(),
		"training_center_id": uuid.New().String(),
		"exp":                time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte("wrong-secret"))

	probe, _, present := sessionProbe()
	h := Auth(testSecret, "")(probe)

	req := httptest.NewRequest("GET", "/api/attendees", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, *present)
}

func TestRequireSession_RejectsAnonymous(t *testing.T) {
	h := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	req := httptest.NewRequest("GET", "/api/attendees", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_PassesWithSession(t *testing.T) {
	called := false
	h := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/api/attendees", nil)
	ctx := SetSessionForTest(req.Context(), Session{
		UserID:           uuid.New(),
		TrainingCenterID: uuid.New(),
	})
	h.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	assert.True(t, called)
}
