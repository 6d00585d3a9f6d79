package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is shared by attach and clear so a token written by one
// request is readable (and removable) by the next.
const SessionCookieName = "app_session"

// Cookies carries the session token in an http-only cookie. It does not
// verify tokens, that is the codec's job.
type Cookies struct {
	secure bool
}

func NewCookies(secure bool) *Cookies {
	return &Cookies{
		secure: secure,
	}
}

func (c *Cookies) Attach(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Cookies) Read(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
