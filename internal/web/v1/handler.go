// Package v1 exposes the HTTP surface for API version 1.
package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stocked/stocked/internal/core/domain"
	"github.com/stocked/stocked/internal/logging"
	logicv1 "github.com/stocked/stocked/internal/logic/v1"
	"github.com/stocked/stocked/middleware"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "SSID"

const sessionCookiePath = "/"

// Handler groups the HTTP handlers for API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth   *logicv1.AuthService
	stocks *logicv1.StockService

	// cookieSecure toggles the Secure attribute on the session cookie so
	// local plain-HTTP development still receives it.
	cookieSecure bool
}

// NewHandler creates a new Handler.
func NewHandler(auth *logicv1.AuthService, stocks *logicv1.StockService, cookieSecure bool) *Handler {
	return &Handler{auth: auth, stocks: stocks, cookieSecure: cookieSecure}
}

// RegisterRoutes registers all API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/session", h.GetSession)

	rg.GET("/stocks", h.ListStocks)
	rg.GET("/stocks/:id", h.GetStock)
}

// sessionToken returns the raw session cookie value, or "" when absent.
func sessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

// setSessionCookie attaches the session token with the fixed attribute
// set: HttpOnly, Path=/, SameSite=Strict, Max-Age of the session TTL.
func (h *Handler) setSessionCookie(c *gin.Context, session *logicv1.IssuedSession) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, session.Token, int(logicv1.SessionTTL.Seconds()),
		sessionCookiePath, "", h.cookieSecure, true)
}

// clearSessionCookie expires the cookie. Attributes must match the ones
// used when setting it, or cookie jars silently keep the original.
func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, sessionCookiePath, "", h.cookieSecure, true)
}

// bindCredentials binds and normalizes the register/login request body.
// Emails are lowercased here, before the logic layer sees them.
func bindCredentials(c *gin.Context) (domain.AuthCredentials, error) {
	var creds domain.AuthCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		return domain.AuthCredentials{}, err
	}
	creds.Email = strings.ToLower(creds.Email)
	return creds, nil
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.auth.register", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	creds, err := bindCredentials(c)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		respondError(c, logicv1.WrapError(logicv1.KindClientError, err))
		return
	}

	user, session, err := h.auth.Register(ctx, sessionToken(c), creds)
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, session)

	logger.Info().Int("user_id", user.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.auth.login", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	creds, err := bindCredentials(c)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		respondError(c, logicv1.WrapError(logicv1.KindClientError, err))
		return
	}

	user, session, err := h.auth.Login(ctx, sessionToken(c), creds)
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, session)

	logger.Info().Int("user_id", user.ID).Msg("Login successful")
	c.JSON(http.StatusOK, user)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.auth.logout", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	if err := h.auth.Logout(ctx, sessionToken(c)); err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}

	h.clearSessionCookie(c)

	logger.Info().Msg("Logout successful")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSession handles GET /auth/session.
func (h *Handler) GetSession(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.auth.session", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	user, err := h.auth.Resolve(ctx, sessionToken(c))
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
