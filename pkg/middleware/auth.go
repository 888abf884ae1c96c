package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avink/microgram/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// SubjectKey is the context key for the authenticated subject (username)
	SubjectKey ContextKey = "subject"
)

// TokenValidator verifies a bearer token and returns its subject
type TokenValidator interface {
	Validate(token string) (string, error)
}

// Authenticator returns middleware that requires a valid bearer token
// and stores its subject in the request context. Any validation failure
// (malformed, expired, bad signature) is a 401.
func Authenticator(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			subject, err := tokens.Validate(parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject extracts the authenticated subject from the request context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
