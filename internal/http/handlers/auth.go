package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/cityevents/internal/domain/user"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(subject string, roles []string) (string, error)
	AccessTTL() time.Duration
}

// ClientCredentials, when ClientID is set, must be presented with HTTP Basic.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// AuthHandler serves the OAuth2 password grant.
type AuthHandler struct {
	users  UserReader
	tokens TokenIssuer
	client ClientCredentials
	prom   *observability.Prom
	log    *slog.Logger
}

func NewAuthHandler(users UserReader, tokens TokenIssuer, client ClientCredentials, prom *observability.Prom, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{users: users, tokens: tokens, client: client, prom: prom, log: log}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (h *AuthHandler) Token(ctx *gin.Context) {
	if !h.clientAuthorized(ctx) {
		h.prom.ObserveLogin("invalid_client")
		ctx.Header("WWW-Authenticate", `Basic realm="cityevents"`)
		h.oauthFail(ctx, http.StatusUnauthorized, "invalid_client", "Client authentication failed")
		return
	}

	grantType := ctx.PostForm("grant_type")
	if grantType != "password" {
		h.prom.ObserveLogin("unsupported_grant_type")
		h.oauthFail(ctx, http.StatusBadRequest, "unsupported_grant_type", "Only the password grant is supported")
		return
	}

	username := strings.TrimSpace(ctx.PostForm("username"))
	password := ctx.PostForm("password")
	if username == "" || password == "" {
		h.prom.ObserveLogin("invalid_request")
		h.oauthFail(ctx, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, username)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			h.log.ErrorContext(ctx.Request.Context(), "token user lookup failed", "error", err)
			h.oauthFail(ctx, http.StatusInternalServerError, "server_error", "Could not issue token")
			return
		}
		security.BurnCompare(password)
		h.badCredentials(ctx)
		return
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		h.badCredentials(ctx)
		return
	}

	token, err := h.tokens.GenerateAccessToken(u.Email, u.Roles)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "sign access token failed", "error", err)
		h.oauthFail(ctx, http.StatusInternalServerError, "server_error", "Could not issue token")
		return
	}

	h.prom.ObserveLogin("ok")
	ctx.Header("Cache-Control", "no-store")
	ctx.Header("Pragma", "no-cache")
	ctx.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokens.AccessTTL().Seconds()),
		Scope:       "read write",
	})
}

func (h *AuthHandler) clientAuthorized(ctx *gin.Context) bool {
	if h.client.ClientID == "" {
		return true
	}
	id, secret, ok := ctx.Request.BasicAuth()
	if !ok {
		return false
	}
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(h.client.ClientID)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(secret), []byte(h.client.ClientSecret)) == 1
	return idOK && secretOK
}

func (h *AuthHandler) badCredentials(ctx *gin.Context) {
	h.prom.ObserveLogin("invalid_grant")
	h.oauthFail(ctx, http.StatusBadRequest, "invalid_grant", "Bad credentials")
}

func (h *AuthHandler) oauthFail(ctx *gin.Context, status int, code, description string) {
	ctx.Header("Cache-Control", "no-store")
	ctx.AbortWithStatusJSON(status, oauthError{Error: code, ErrorDescription: description})
}
