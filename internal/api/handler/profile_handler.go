package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

type profileResponse struct {
	Profile ports.ProfileView `json:"profile"`
	Flash   []flashResponse   `json:"flash,omitempty"`
}

// ProfileHandler handles the profile page: viewing and updating the user's
// display details, including the photo upload.
type ProfileHandler struct {
	service ports.ProfileService
	flash   *Flasher
}

func NewProfileHandler(service ports.ProfileService, flash *Flasher) *ProfileHandler {
	return &ProfileHandler{service: service, flash: flash}
}

// View handles GET /profile. A user who has never saved a profile gets an
// empty one, not an error.
func (h *ProfileHandler) View(c echo.Context) error {
	_, email, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Get(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Profile: *profile,
		Flash:   toFlashResponses(h.flash.Pop(c)),
	})
}

// Update handles POST /profile, a multipart form. The photo part is
// optional; when absent the stored photo path is retained.
func (h *ProfileHandler) Update(c echo.Context) error {
	_, email, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input := ports.UpdateProfileInput{
		Email:        email,
		Name:         c.FormValue("name"),
		Phone:        c.FormValue("phone"),
		Introduction: c.FormValue("introduction"),
	}

	if file, err := c.FormFile("profile_photo"); err == nil && file.Filename != "" {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable photo upload")
		}
		defer src.Close()
		input.PhotoName = file.Filename
		input.Photo = src
	}

	if err := h.service.Update(c.Request().Context(), input); err != nil {
		return err
	}

	h.flash.Add(c, "info", "Profile updated successfully!")
	return c.Redirect(http.StatusSeeOther, "/profile")
}
