package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"physiofit/physiofit/services/identity"
	"physiofit/physiofit/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	user      *types.User
	refreshed *identity.Session
	err       error
	calls     int
	seen      identity.Session
}

func (s *stubProvider) CurrentUser(_ context.Context, sess identity.Session) (*types.User, *identity.Session, error) {
	s.calls++
	s.seen = sess
	return s.user, s.refreshed, s.err
}

var gateCfg = GateConfig{ProtectedPrefixes: []string{"/dashboard"}, LoginPath: "/login"}

func serve(t *testing.T, p SessionProvider, path string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	SessionGate(p, gateCfg)(next).ServeHTTP(rr, req)
	return rr, seen
}

func TestGateRedirectsProtectedWithoutUser(t *testing.T) {
	for _, path := range []string{"/dashboard", "/dashboard/", "/dashboard/settings", "/dashboardx"} {
		t.Run(path, func(t *testing.T) {
			rr, seen := serve(t, &stubProvider{}, path)
			require.Equal(t, http.StatusFound, rr.Code)
			assert.Nil(t, seen)

			loc, err := url.Parse(rr.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, path, loc.Query().Get("redirect"))
		})
	}
}

func TestGateProviderErrorCountsAsNoUser(t *testing.T) {
	rr, _ := serve(t, &stubProvider{err: errors.New("provider down")}, "/dashboard")
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestGateNeverRedirectsUnprotected(t *testing.T) {
	providers := []*stubProvider{
		{},
		{err: errors.New("boom")},
		{user: &types.User{ID: "u1"}},
	}
	for _, p := range providers {
		for _, path := range []string{"/", "/login", "/chatbot", "/api/chat", "/dash"} {
			rr, seen := serve(t, p, path)
			assert.Equal(t, http.StatusOK, rr.Code, path)
			assert.NotNil(t, seen, path)
		}
	}
}

func TestGatePassesUserInContext(t *testing.T) {
	p := &stubProvider{user: &types.User{ID: "u1", Email: "anna@example.de"}}
	rr, seen := serve(t, p, "/dashboard", &http.Cookie{Name: identity.AccessCookie, Value: "tok"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)

	user := UserFromContext(seen.Context())
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "tok", p.seen.AccessToken)
}

func TestGatePropagatesRefreshedCookiesOnPass(t *testing.T) {
	p := &stubProvider{
		user:      &types.User{ID: "u1"},
		refreshed: &identity.Session{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 3600},
	}
	rr, seen := serve(t, p, "/dashboard",
		&http.Cookie{Name: identity.AccessCookie, Value: "old-access"},
		&http.Cookie{Name: identity.RefreshCookie, Value: "old-refresh"},
		&http.Cookie{Name: "theme", Value: "dark"},
	)
	require.Equal(t, http.StatusOK, rr.Code)

	set := map[string]string{}
	for _, c := range rr.Result().Cookies() {
		set[c.Name] = c.Value
	}
	assert.Equal(t, "new-access", set[identity.AccessCookie])
	assert.Equal(t, "new-refresh", set[identity.RefreshCookie])

	// downstream handlers see the refreshed tokens, other cookies survive
	got := identity.FromRequest(seen)
	assert.Equal(t, "new-access", got.AccessToken)
	assert.Equal(t, "new-refresh", got.RefreshToken)
	theme, err := seen.Cookie("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme.Value)
}

func TestGatePropagatesRefreshedCookiesOnRedirect(t *testing.T) {
	p := &stubProvider{
		refreshed: &identity.Session{AccessToken: "new-access", RefreshToken: "new-refresh"},
		err:       errors.New("user lookup failed"),
	}
	rr, _ := serve(t, p, "/dashboard")
	require.Equal(t, http.StatusFound, rr.Code)

	names := map[string]bool{}
	for _, c := range rr.Result().Cookies() {
		names[c.Name] = true
	}
	assert.True(t, names[identity.AccessCookie])
	assert.True(t, names[identity.RefreshCookie])
}

func TestGateSkipsExemptPaths(t *testing.T) {
	p := &stubProvider{}
	for _, path := range []string{"/static/app.css", "/favicon.ico", "/dashboard/logo.png", "/img/a.webp"} {
		rr, seen := serve(t, p, path)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.NotNil(t, seen, path)
	}
	assert.Zero(t, p.calls)
}

func TestIsExempt(t *testing.T) {
	assert.True(t, IsExempt("/static/chat.js"))
	assert.True(t, IsExempt("/favicon.ico"))
	assert.False(t, IsExempt("/x/y.JPG"))
	assert.False(t, IsExempt("/dashboard"))
	assert.False(t, IsExempt("/favicon.ico/dashboard"))
}
