package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kgpnow-api/internal/domain"
)

type contextKey string

const accountKey contextKey = "account"

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type accountLoader interface {
	GetByID(ctx context.Context, userID string) (*domain.Account, error)
}

// Auth validates the Bearer session token, loads the account it names and
// stores it in the request context.
func Auth(tokens tokenVerifier, accounts accountLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer") {
				writeJSONError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}
			a, err := accounts.GetByID(r.Context(), userID)
			if errors.Is(err, domain.ErrNotFound) {
				writeJSONError(w, http.StatusUnauthorized, "User not found")
				return
			}
			if err != nil {
				logger.ErrorContext(r.Context(), "load account for token", "user_id", userID, "err", err)
				writeJSONError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), a)))
		})
	}
}

// WithAccount returns a copy of ctx carrying a.
func WithAccount(ctx context.Context, a *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// AccountFromContext returns the account stored by Auth.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	a, ok := ctx.Value(accountKey).(*domain.Account)
	return a, ok && a != nil
}
