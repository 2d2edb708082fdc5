package auth

import (
	"context"
	"net/http"
)

// TokenHeader is the request header carrying the JWT. The API's clients
// predate the Authorization: Bearer convention and send a bare token in a
// custom header instead.
const TokenHeader = "x-auth-token"

// contextKey is an unexported type for context keys in this package. Using a
// package-private type means only this package can read or write the user ID
// in a request context — a plain string key could collide with or be
// shadowed by any other package.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the x-auth-token header, validates it, and stores
// the userID in the request context. A missing or invalid token ends the
// request with 401 before any handler — and therefore any data-store access
// — runs.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(TokenHeader)
			if tokenStr == "" {
				unauthorized(w, "no token, authorization denied")
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w, "token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) on an unauthenticated request — which should
// never happen behind RequireAuth, but handlers check anyway.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
