package middlewares

import (
	"errors"
	"log/slog"

	"github.com/geocoder89/cityevents/internal/auth"
	"github.com/geocoder89/cityevents/internal/authz"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
	log *slog.Logger
}

func NewAuthMiddleware(jwt TokenVerifier, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{jwt: jwt, log: log}
}

// principal resolves the bearer token, if any. No header yields (nil, nil).
func (m *AuthMiddleware) principal(c *gin.Context) (*authz.Principal, error) {
	raw, err := auth.TokenFromHeader(c.GetHeader("Authorization"))
	if errors.Is(err, auth.ErrMissingToken) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	claims, err := m.jwt.VerifyAccessToken(raw)
	if err != nil {
		return nil, err
	}

	return &authz.Principal{
		Subject: claims.Subject,
		Roles:   authz.NormalizeRoles(claims.Roles),
	}, nil
}

// PrincipalFromContext returns the caller stored by Authorize.
func PrincipalFromContext(c *gin.Context) (*authz.Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*authz.Principal)
	return p, ok && p != nil
}

func rejectInvalidToken(c *gin.Context, log *slog.Logger, err error) {
	log.DebugContext(c.Request.Context(), "invalid access token",
		"error", err,
		"request_id", respond.RequestID(c),
	)
	respond.Unauthorized(c, "Invalid or expired access token")
}
