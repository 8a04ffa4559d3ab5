// physiofit/middlewares/session.go
package middlewares

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"physiofit/physiofit/services/identity"
	"physiofit/physiofit/types"
	"physiofit/physiofit/utils/logging"

	"go.uber.org/zap"
)

type contextKey string

const UserKey contextKey = "user"

// SessionProvider validates (and possibly refreshes) the caller's session.
type SessionProvider interface {
	CurrentUser(ctx context.Context, s identity.Session) (*types.User, *identity.Session, error)
}

type GateConfig struct {
	ProtectedPrefixes []string
	LoginPath         string
	CookieSecure      bool
}

// exemptPath matches static assets and the favicon; the gate never runs for them.
var exemptPath = regexp.MustCompile(`^/(static/|favicon\.ico$)|\.(svg|png|jpg|jpeg|gif|webp)$`)

func IsExempt(path string) bool {
	return exemptPath.MatchString(path)
}

func (c GateConfig) isProtected(path string) bool {
	for _, prefix := range c.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// SessionGate refreshes the session on every request and keeps callers
// without a user away from protected paths. Refreshed cookies go out on
// both the pass-through and the redirect.
func SessionGate(provider SessionProvider, cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			user, refreshed, err := provider.CurrentUser(r.Context(), identity.FromRequest(r))
			if err != nil {
				logging.AppLogger.Info("session check failed",
					zap.String("path", r.URL.Path),
					zap.String("request_id", logging.RequestID(r.Context())),
					zap.Error(err))
				user = nil
			}
			if refreshed != nil {
				cookies := refreshed.Cookies(cfg.CookieSecure)
				identity.SetCookies(w, cookies)
				r = withCookies(r, cookies)
			}

			if user == nil && cfg.isProtected(r.URL.Path) {
				target := url.URL{Path: cfg.LoginPath, RawQuery: url.Values{"redirect": {r.URL.Path}}.Encode()}
				http.Redirect(w, r, target.String(), http.StatusFound)
				return
			}

			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the user the gate resolved, or nil.
func UserFromContext(ctx context.Context) *types.User {
	user, _ := ctx.Value(UserKey).(*types.User)
	return user
}

// withCookies returns a shallow copy of r whose Cookie header carries the
// refreshed values in place of the stale ones.
func withCookies(r *http.Request, fresh []*http.Cookie) *http.Request {
	replaced := make(map[string]bool, len(fresh))
	for _, c := range fresh {
		replaced[c.Name] = true
	}

	r2 := r.Clone(r.Context())
	r2.Header.Del("Cookie")
	for _, c := range r.Cookies() {
		if !replaced[c.Name] {
			r2.AddCookie(c)
		}
	}
	for _, c := range fresh {
		r2.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r2
}
