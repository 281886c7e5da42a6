package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"loan-ledger/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const unauthorizedBody = `{"message":"Unauthorized"}`

// AuthMiddleware requires an HS256 bearer token when auth is enabled and is a
// pass-through otherwise.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	logger = logger.With("component", "AuthMiddleware")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validateJWT(r, cfg.JWTSecret); err != nil {
				logger.WarnContext(r.Context(), "Rejected request", "path", r.URL.Path, "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(unauthorizedBody))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var errMissingAuthHeader = errors.New("missing Authorization header")

func validateJWT(r *http.Request, secret string) error {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return errMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return errors.New("invalid Authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
