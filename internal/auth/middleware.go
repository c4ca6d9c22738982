package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// ContextKeyUser is the context key for the caller's user id
const ContextKeyUser contextKey = "user_id"

// Claims is the token payload issued to users of the API
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Middleware validates HMAC-signed bearer tokens and stores the caller's
// user id in the request context
type Middleware struct {
	secret []byte
	logger *logrus.Logger
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(secret string, logger *logrus.Logger) *Middleware {
	return &Middleware{
		secret: []byte(secret),
		logger: logger,
	}
}

// ExtractToken validates the Authorization header when present. Requests
// without one continue anonymously; resolvers that need a caller reject
// them. A malformed or invalid token ends the request with 401.
func (m *Middleware) ExtractToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Parse Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			m.logger.Warn("Invalid Authorization header format")
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		userID, err := m.ValidateToken(parts[1])
		if err != nil {
			m.logger.WithError(err).Debug("Rejected bearer token")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		m.logger.WithField("user", userID.Hex()).Debug("Authenticated request")

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	})
}

// ValidateToken checks the signature and expiry of a token and returns the
// user id it was issued for
func (m *Middleware) ValidateToken(tokenString string) (primitive.ObjectID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return primitive.NilObjectID, fmt.Errorf("invalid token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid userId claim: %w", err)
	}
	return userID, nil
}

// IssueToken signs a token for userID that expires after ttl
func (m *Middleware) IssueToken(userID primitive.ObjectID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// WithUser stores the caller's user id in ctx
func WithUser(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, ContextKeyUser, userID)
}

// GetUserFromContext extracts the caller's user id from the request context.
// Anonymous requests yield the zero id.
func GetUserFromContext(ctx context.Context) primitive.ObjectID {
	if user, ok := ctx.Value(ContextKeyUser).(primitive.ObjectID); ok {
		return user
	}
	return primitive.NilObjectID
}
