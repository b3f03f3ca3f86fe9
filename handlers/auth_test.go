package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/platefront/platefront/backend/admin-console/internal/config"
	"github.com/platefront/platefront/backend/admin-console/internal/identity"
	"github.com/platefront/platefront/backend/admin-console/internal/sessions"
	"github.com/platefront/platefront/backend/admin-console/internal/tokens"
)

type memAccounts struct {
	byEmail map[string]*identity.Account
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*identity.Account, error) {
	return m.byEmail[email], nil
}

func (m *memAccounts) Create(_ context.Context, a *identity.Account) error {
	a.ID = "adm-1"
	m.byEmail[a.Email] = a
	return nil
}

func (m *memAccounts) Count(_ context.Context) (int64, error) {
	return int64(len(m.byEmail)), nil
}

type memSessions struct {
	byRefresh map[string]*sessions.Session
}

func (m *memSessions) Create(_ context.Context, s *sessions.Session) error {
	m.byRefresh[s.RefreshToken] = s
	return nil
}

func (m *memSessions) GetByRefresh(_ context.Context, refresh string) (*sessions.Session, error) {
	return m.byRefresh[refresh], nil
}

func (m *memSessions) DeleteByRefresh(_ context.Context, refresh string) error {
	delete(m.byRefresh, refresh)
	return nil
}

func authRouter(t *testing.T) (*gin.Engine, *sessions.Service, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Session: config.SessionConfig{
		Secret:     "auth-test-secret",
		CookieName: "admin_session",
		TTL:        time.Hour,
	}}

	idSvc := identity.NewService(&memAccounts{byEmail: map[string]*identity.Account{}})
	_, err := idSvc.CreateAccount(context.Background(), "admin@example.com", "Admin", "open sesame")
	require.NoError(t, err)

	sessSvc := sessions.NewService(&memSessions{byRefresh: map[string]*sessions.Session{}})

	r := gin.New()
	r.SetHTMLTemplate(Templates())
	h := NewAuthHandler(cfg, idSvc, sessSvc, sessions.NewBlacklist(nil))
	h.Register(&r.RouterGroup)
	return r, sessSvc, cfg
}

func postLogin(r *gin.Engine, email, password, accept string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginFailureMessages(t *testing.T) {
	r, _, _ := authRouter(t)

	cases := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"unknown account", "nobody@example.com", "whatever", "No user found with this email"},
		{"wrong password", "admin@example.com", "not it", "Incorrect password"},
		{"malformed email", "not-an-email", "open sesame", "Invalid email format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postLogin(r, tc.email, tc.password, "text/html")
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestLoginFailureJSON(t *testing.T) {
	r, _, _ := authRouter(t)

	w := postLogin(r, "nobody@example.com", "whatever", "application/json")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "No user found with this email", body["error"])
}

func TestLoginSuccessRedirectsWithCookie(t *testing.T) {
	r, sessSvc, cfg := authRouter(t)

	w := postLogin(r, "admin@example.com", "open sesame", "text/html")
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cfg.Session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie not set")
	require.True(t, cookie.HttpOnly)

	claims, err := tokens.ParseSessionToken([]byte(cfg.Session.Secret), cookie.Value)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims.Email)

	sess, err := sessSvc.ValidateRefresh(context.Background(), claims.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "admin@example.com", sess.Email)
}

func TestLoginSuccessJSON(t *testing.T) {
	r, _, _ := authRouter(t)

	w := postLogin(r, "admin@example.com", "open sesame", "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "/dashboard", body["redirect"])
}

func TestLogoutRevokesSession(t *testing.T) {
	r, sessSvc, cfg := authRouter(t)

	w := postLogin(r, "admin@example.com", "open sesame", "text/html")
	require.Equal(t, http.StatusSeeOther, w.Code)
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cfg.Session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	claims, err := tokens.ParseSessionToken([]byte(cfg.Session.Secret), cookie.Value)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	require.Equal(t, http.StatusSeeOther, w2.Code)
	require.Equal(t, "/", w2.Header().Get("Location"))

	sess, err := sessSvc.ValidateRefresh(context.Background(), claims.SessionID)
	require.NoError(t, err)
	require.Nil(t, sess, "session should be gone after logout")

	for _, c := range w2.Result().Cookies() {
		if c.Name == cfg.Session.CookieName {
			require.Less(t, c.MaxAge, 0, "cookie should be cleared")
		}
	}
}

func TestLogoutWithoutCookie(t *testing.T) {
	r, _, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}
