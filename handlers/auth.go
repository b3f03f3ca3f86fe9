package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platefront/platefront/backend/admin-console/internal/config"
	"github.com/platefront/platefront/backend/admin-console/internal/identity"
	"github.com/platefront/platefront/backend/admin-console/internal/sessions"
	"github.com/platefront/platefront/backend/admin-console/internal/tokens"
	"github.com/platefront/platefront/backend/admin-console/pkg/logger"
	"github.com/platefront/platefront/backend/admin-console/pkg/metrics"
)

// LoginRequest carries the credential form. The email field relies on
// the browser's native type=email constraint; the server re-checks only
// to classify the failure.
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// AuthHandler holds dependencies for the session gate.
type AuthHandler struct {
	cfg         *config.Config
	identitySvc *identity.Service
	sessionsSvc *sessions.Service
	blacklist   *sessions.Blacklist
}

func NewAuthHandler(cfg *config.Config, id *identity.Service, s *sessions.Service, bl *sessions.Blacklist) *AuthHandler {
	return &AuthHandler{cfg: cfg, identitySvc: id, sessionsSvc: s, blacklist: bl}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
}

// Login signs the administrator in and hands control to the dashboard.
// Failures never leave this handler: each is classified and rendered as
// a display message on the login screen.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailure(c, identity.ErrMalformedEmail)
		return
	}

	account, err := h.identitySvc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Debugf("sign-in rejected for %q: %v", req.Email, err)
		h.loginFailure(c, err)
		return
	}

	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), account.ID, account.Email, h.cfg.Session.TTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		h.loginFailure(c, err)
		return
	}
	cookie, err := tokens.GenerateSessionToken([]byte(h.cfg.Session.Secret), account.ID, account.Email, refresh, h.cfg.Session.TTL)
	if err != nil {
		logger.Errorf("failed to sign session cookie: %v", err)
		h.loginFailure(c, err)
		return
	}

	metrics.SignIns.WithLabelValues("success").Inc()
	c.SetCookie(h.cfg.Session.CookieName, cookie, int(h.cfg.Session.TTL.Seconds()), "/", "", h.cfg.Session.Secure, true)
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": "/dashboard"})
}

// Logout deletes the server-side session, blacklists the cookie token
// for its remaining lifetime, and sends the browser back to the login
// screen regardless of outcome.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(h.cfg.Session.CookieName); err == nil && raw != "" {
		if claims, err := tokens.ParseSessionToken([]byte(h.cfg.Session.Secret), raw); err == nil {
			if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), claims.SessionID); err != nil {
				logger.Warnf("logout: failed to remove session: %v", err)
			}
			if ttl := time.Until(claims.ExpiresAt); ttl > 0 {
				if err := h.blacklist.Add(c.Request.Context(), raw, ttl); err != nil {
					logger.Warnf("logout: failed to blacklist cookie token: %v", err)
				}
			}
		}
	}
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.Secure, true)
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": "/"})
}

func (h *AuthHandler) loginFailure(c *gin.Context, err error) {
	metrics.SignIns.WithLabelValues(signInOutcome(err)).Inc()
	msg := identity.Message(err)
	if wantsHTML(c) {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": msg})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func signInOutcome(err error) string {
	switch {
	case errors.Is(err, identity.ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, identity.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, identity.ErrMalformedEmail):
		return "malformed_email"
	default:
		return "error"
	}
}

// wantsHTML distinguishes form navigations from fetch/JSON clients.
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
