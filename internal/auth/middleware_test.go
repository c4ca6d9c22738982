package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestMiddleware() *Middleware {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewMiddleware("test-secret", logger)
}

// captureUser records the caller id seen by the downstream handler
func captureUser(seen *primitive.ObjectID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractToken_ValidToken(t *testing.T) {
	m := newTestMiddleware()
	userID := primitive.NewObjectID()

	token, err := m.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	var seen primitive.ObjectID
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.ExtractToken(captureUser(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, seen)
}

func TestExtractToken_StoresOnlyUser(t *testing.T) {
	m := newTestMiddleware()
	userID := primitive.NewObjectID()

	token, err := m.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	var raw interface{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.Context().Value(contextKey("jwt_token"))
		assert.Equal(t, userID, r.Context().Value(ContextKeyUser))
	})

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	m.ExtractToken(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, raw)
}

func TestExtractToken_NoHeaderIsAnonymous(t *testing.T) {
	m := newTestMiddleware()

	seen := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	rec := httptest.NewRecorder()

	m.ExtractToken(captureUser(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, seen.IsZero())
}

func TestExtractToken_Rejections(t *testing.T) {
	m := newTestMiddleware()
	userID := primitive.NewObjectID()

	expired, err := m.IssueToken(userID, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewMiddleware("other-secret", logrus.New()).IssueToken(userID, time.Hour)
	require.NoError(t, err)

	badClaim, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "not-an-id"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer abc.def.ghi"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
		{"bad user id claim", "Bearer " + badClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			m.ExtractToken(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}
