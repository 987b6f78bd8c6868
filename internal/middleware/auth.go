package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/motorline/motorline-go/internal/crypto"
	"github.com/motorline/motorline-go/internal/model"
	"github.com/motorline/motorline-go/internal/repository"
)

type contextKey string

const userKey contextKey = "user"

// UserStore is the lookup surface the auth middleware needs to resolve
// a token subject to a live account.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Authenticate returns middleware that resolves a Bearer token from the
// Authorization header to an active user. A token whose subject no
// longer exists, or has been deactivated, is rejected the same way as
// an invalid one. Resolution is read-only.
func Authenticate(tokens *crypto.TokenIssuer, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			userID, err := tokens.VerifyAccess(token)
			if err != nil {
				if errors.Is(err, crypto.ErrTokenExpired) {
					writeJSONError(w, http.StatusUnauthorized, "token expired")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					writeJSONError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				writeJSONError(w, http.StatusServiceUnavailable, "temporarily unavailable, retry later")
				return
			}
			if !user.Active {
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
