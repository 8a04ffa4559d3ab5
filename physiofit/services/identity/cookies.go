package identity

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "sb-access-token"
	RefreshCookie = "sb-refresh-token"

	refreshCookieMaxAge = 7 * 24 * time.Hour
)

// FromRequest reads the token pair from the request cookies. Missing
// cookies give empty fields.
func FromRequest(r *http.Request) Session {
	var s Session
	if c, err := r.Cookie(AccessCookie); err == nil {
		s.AccessToken = c.Value
	}
	if c, err := r.Cookie(RefreshCookie); err == nil {
		s.RefreshToken = c.Value
	}
	return s
}

// Cookies encodes s for the browser.
func (s Session) Cookies(secure bool) []*http.Cookie {
	accessAge := s.ExpiresIn
	if accessAge <= 0 {
		accessAge = int(time.Hour.Seconds())
	}
	return []*http.Cookie{
		newCookie(AccessCookie, s.AccessToken, accessAge, secure),
		newCookie(RefreshCookie, s.RefreshToken, int(refreshCookieMaxAge.Seconds()), secure),
	}
}

// ClearCookies expires both session cookies.
func ClearCookies(secure bool) []*http.Cookie {
	return []*http.Cookie{
		newCookie(AccessCookie, "", -1, secure),
		newCookie(RefreshCookie, "", -1, secure),
	}
}

func newCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetCookies writes every cookie onto w.
func SetCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, c)
	}
}
