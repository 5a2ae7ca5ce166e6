// Package session owns the session cookie: its name and how it is set and
// cleared. The cookie value is a signed token issued by the auth service;
// parsing lives in the session middleware.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "jobtrackr_session"

// Set writes the session cookie. HttpOnly keeps it away from scripts;
// SameSite=Lax still sends it on top-level navigations such as the
// post-login redirect.
func Set(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie immediately.
func Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
