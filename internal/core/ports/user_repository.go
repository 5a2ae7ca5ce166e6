package ports

import (
	"context"
	"time"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
)

// ProfileUpdate carries the profile fields written by the profile page.
type ProfileUpdate struct {
	Name         string
	Phone        string
	Introduction string
	ProfilePhoto string
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create stores a new account and returns it with the generated id.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	// FindByEmail looks up an account by normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID resolves a session-carried identifier, tolerating documents
	// whose _id is stored either as a typed identifier or as its string form.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile upserts the profile fields on the account matched by email.
	UpdateProfile(ctx context.Context, email string, update ProfileUpdate, updatedAt time.Time) error
}
