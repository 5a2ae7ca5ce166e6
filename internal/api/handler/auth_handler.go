package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobtrackr/job-trackr/internal/api/metrics"
	"github.com/jobtrackr/job-trackr/internal/api/session"
	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

// defaultPostLoginTarget is where authenticated users land when no safe
// "next" parameter accompanies the login or signup.
const defaultPostLoginTarget = "/profile"

type authPageResponse struct {
	Next  string          `json:"next,omitempty"`
	Flash []flashResponse `json:"flash,omitempty"`
}

type credentialsRequest struct {
	Email    string `form:"email"    json:"email"    validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// AuthHandler handles signup, login, and logout.
type AuthHandler struct {
	service    ports.AuthService
	flash      *Flasher
	sessionTTL time.Duration
}

func NewAuthHandler(service ports.AuthService, flash *Flasher, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{service: service, flash: flash, sessionTTL: sessionTTL}
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, authPageResponse{
		Next:  c.QueryParam("next"),
		Flash: toFlashResponses(h.flash.Pop(c)),
	})
}

// SignupForm handles GET /signup.
func (h *AuthHandler) SignupForm(c echo.Context) error {
	return c.JSON(http.StatusOK, authPageResponse{
		Next:  c.QueryParam("next"),
		Flash: toFlashResponses(h.flash.Pop(c)),
	})
}

// Login handles POST /login. Failures flash a single generic message and
// redirect back to the form; success sets the session cookie and follows
// the safe "next" target.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}

	token, _, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.flash.Add(c, "error", domain.ErrInvalidCredentials.Error())
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	session.Set(c, token, h.sessionTTL)
	return c.Redirect(http.StatusSeeOther, safeRedirectTarget(c, defaultPostLoginTarget))
}

// Signup handles POST /signup. A successful signup logs the user straight
// in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}

	token, _, err := h.service.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordTooShort),
			errors.Is(err, domain.ErrUserExists),
			errors.Is(err, domain.ErrInvalidCredentials):
			h.flash.Add(c, "error", err.Error())
			return c.Redirect(http.StatusSeeOther, "/signup")
		}
		return err
	}

	metrics.SignupsTotal.Inc()
	session.Set(c, token, h.sessionTTL)
	return c.Redirect(http.StatusSeeOther, safeRedirectTarget(c, defaultPostLoginTarget))
}

// Logout handles POST /logout (and GET for link-based logout).
func (h *AuthHandler) Logout(c echo.Context) error {
	session.Clear(c)
	h.flash.Add(c, "info", "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/login")
}
