package handler

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// safeRedirectTarget resolves the "next" parameter (query first, then form)
// against the request host and returns it only when it stays on this origin
// over http or https. Absolute URLs to other hosts, other schemes and
// scheme-relative tricks all fall back to fallback. Prevents open redirects
// after login and signup.
func safeRedirectTarget(c echo.Context, fallback string) string {
	next := c.QueryParam("next")
	if next == "" {
		next = c.FormValue("next")
	}
	if next == "" {
		return fallback
	}

	target, err := url.Parse(next)
	if err != nil {
		return fallback
	}

	// Relative path on this origin. Reject scheme-relative ("//evil.example")
	// and backslash variants some browsers normalize into them.
	if target.Scheme == "" && target.Host == "" {
		if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
			return fallback
		}
		if !strings.HasPrefix(next, "/") {
			return fallback
		}
		return next
	}

	// Absolute URL: only same-host http/https survives.
	if target.Scheme != "http" && target.Scheme != "https" {
		return fallback
	}
	if target.Host != c.Request().Host {
		return fallback
	}
	return target.RequestURI()
}
