package ports

import (
	"context"
	"io"
)

// ProfileView is the plain-data profile handed to the rendering layer.
type ProfileView struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Introduction string `json:"introduction"`
	ProfilePhoto string `json:"profile_photo"`
}

// UpdateProfileInput carries the profile form. Photo is nil when no new file
// was uploaded; the stored photo path is then retained.
type UpdateProfileInput struct {
	Email        string
	Name         string
	Phone        string
	Introduction string
	PhotoName    string
	Photo        io.Reader
}

// ProfileService reads and writes a user's display profile.
type ProfileService interface {
	Get(ctx context.Context, email string) (*ProfileView, error)
	Update(ctx context.Context, input UpdateProfileInput) error
}
