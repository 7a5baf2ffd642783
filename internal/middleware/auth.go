package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bookshelf/bookshelf-go/internal/crypto"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	fullNameKey contextKey = "fullName"
)

// JWTAuth returns middleware that validates a Bearer token from the
// Authorization header and injects the decoded identity into the request
// context. The failure kind picks the message; the status is always 401.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if authHeader == "" || !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "no token provided or invalid format")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "token is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, fullNameKey, claims.FullName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// FullNameFromContext extracts the authenticated user's full name from the
// request context.
func FullNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(fullNameKey).(string)
	return name, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
