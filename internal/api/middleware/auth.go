package middleware

import (
	"net/http"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/jobtrackr/job-trackr/internal/api/session"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

// Session authenticates a request from its session cookie and injects the
// resolved identity into context as "user_id" and "email". Requests without
// a valid session are redirected to the login page with the original URI in
// the next parameter, mirroring browser-app behavior rather than a bare 401.
func Session(sessionSecret string, auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return redirectToLogin(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(sessionSecret), nil
			})
			if err != nil || !tkn.Valid {
				return redirectToLogin(c)
			}

			userID, _ := claims["sub"].(string)
			if userID == "" {
				return redirectToLogin(c)
			}

			// Resolve the session-carried identifier back to an account so a
			// deleted or unknown user cannot ride a stale cookie.
			user, err := auth.LoadUser(c.Request().Context(), userID)
			if err != nil {
				return redirectToLogin(c)
			}

			c.Set("user_id", user.ID)
			c.Set("email", user.Email)

			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context) error {
	target := "/login?next=" + url.QueryEscape(c.Request().RequestURI)
	return c.Redirect(http.StatusFound, target)
}
