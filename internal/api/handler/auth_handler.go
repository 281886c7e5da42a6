package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/config"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
}

func NewAuthHandler(cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// GenerateBearerToken issues an HS256 token signed with the configured secret.
//
// @Summary Generate a JWT bearer token
// @Description Issues a token accepted by the /api routes when authentication is enabled.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "username"
// @Success 200 {object} dto.TokenResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/token [post]
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		respondError(w, fmt.Errorf("%w: username is required", apperrors.ErrInvalidArgument))
		return
	}
	if h.cfg.JWTSecret == "" {
		h.logger.ErrorContext(r.Context(), "JWT secret is not configured")
		respondError(w, errors.New("token signing is not configured"))
		return
	}

	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", slog.String("username", username))
	respondJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     "Bearer " + tokenString,
		ExpiresIn: int64(tokenTTL.Seconds()),
	})
}
