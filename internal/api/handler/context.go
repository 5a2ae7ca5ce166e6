package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity injected by the Session middleware and
// fast-fails before any service call: a handler on an authenticated route
// must never run without both values present.
func ctxIdentity(c echo.Context) (userID, email string, err error) {
	userID, _ = c.Get("user_id").(string)
	email, _ = c.Get("email").(string)
	if userID == "" || email == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return userID, email, nil
}
