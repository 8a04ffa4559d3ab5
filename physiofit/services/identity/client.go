// Package identity is a small client for a Supabase (GoTrue) auth service.
// It covers exactly what the web app needs: reading the current user,
// refreshing a session, password sign-in, sign-up and sign-out.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"physiofit/physiofit/types"
	httputils "physiofit/physiofit/utils/http"
	"physiofit/physiofit/utils/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// refreshLeeway refreshes access tokens that expire within this window.
const refreshLeeway = 30 * time.Second

type Client struct {
	baseURL string
	anonKey string
	client  *http.Client
	now     func() time.Time
}

func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey: anonKey,
		client:  httputils.NewClient(timeout),
		now:     time.Now,
	}
}

// Session is the token pair the provider hands out.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	TokenType    string      `json:"token_type"`
	User         *types.User `json:"user,omitempty"`
}

// Error is a failure reported by the provider.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity provider: %d: %s", e.Status, e.Message)
}

func (c *Client) header(accessToken string) http.Header {
	h := http.Header{}
	h.Set("apikey", c.anonKey)
	if accessToken != "" {
		h.Set("Authorization", "Bearer "+accessToken)
	} else {
		h.Set("Authorization", "Bearer "+c.anonKey)
	}
	return h
}

// CurrentUser validates the session, refreshing it first when the access
// token is gone or about to expire. The returned *Session is non-nil only
// when new tokens were issued; callers must write them back as cookies,
// also when the user lookup itself fails afterwards.
func (c *Client) CurrentUser(ctx context.Context, s Session) (*types.User, *Session, error) {
	defer logging.LogDuration(ctx, "identity_current_user")()

	var refreshed *Session
	if s.RefreshToken != "" && (s.AccessToken == "" || c.expiresSoon(s.AccessToken)) {
		ns, err := c.Refresh(ctx, s.RefreshToken)
		if err != nil {
			return nil, nil, err
		}
		s, refreshed = *ns, ns
	}
	if s.AccessToken == "" {
		return nil, nil, nil
	}

	user, err := c.getUser(ctx, s.AccessToken)
	if isUnauthorized(err) && refreshed == nil && s.RefreshToken != "" {
		ns, rerr := c.Refresh(ctx, s.RefreshToken)
		if rerr != nil {
			return nil, nil, rerr
		}
		refreshed = ns
		user, err = c.getUser(ctx, ns.AccessToken)
	}
	if err != nil {
		return nil, refreshed, err
	}
	return user, refreshed, nil
}

func (c *Client) getUser(ctx context.Context, accessToken string) (*types.User, error) {
	var user types.User
	if err := httputils.GetJSON(ctx, c.client, c.baseURL+"/user", c.header(accessToken), &user); err != nil {
		return nil, asProviderError(err)
	}
	if user.ID == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "no user in response"}
	}
	return &user, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return c.token(ctx, "refresh_token", body)
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.token(ctx, "password", body)
}

func (c *Client) token(ctx context.Context, grant string, body interface{}) (*Session, error) {
	var s Session
	u := c.baseURL + "/token?grant_type=" + url.QueryEscape(grant)
	if err := httputils.PostJSON(ctx, c.client, u, c.header(""), body, &s); err != nil {
		return nil, asProviderError(err)
	}
	if s.AccessToken == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "no session in response"}
	}
	return &s, nil
}

// SignUp registers a new account. The session is nil when the provider
// requires e-mail confirmation first.
func (c *Client) SignUp(ctx context.Context, email, password, redirectTo string) (*Session, error) {
	u := c.baseURL + "/signup"
	if redirectTo != "" {
		u += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	body := map[string]string{"email": email, "password": password}

	var s Session
	if err := httputils.PostJSON(ctx, c.client, u, c.header(""), body, &s); err != nil {
		return nil, asProviderError(err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	err := httputils.PostJSON(ctx, c.client, c.baseURL+"/logout", c.header(accessToken), struct{}{}, nil)
	if err != nil {
		return asProviderError(err)
	}
	return nil
}

// expiresSoon reads exp without verifying the signature; the provider
// still validates the token on /user.
func (c *Client) expiresSoon(accessToken string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return c.now().Add(refreshLeeway).After(exp.Time)
}

func isUnauthorized(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && (pe.Status == http.StatusUnauthorized || pe.Status == http.StatusForbidden)
}

func asProviderError(err error) error {
	var se *httputils.StatusError
	if !errors.As(err, &se) {
		logging.ErrorLogger.Error("identity provider unreachable", zap.Error(err))
		return err
	}
	return &Error{Status: se.Code, Message: providerMessage(se.Body)}
}
