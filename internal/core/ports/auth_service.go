package ports

import (
	"context"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
)

// AuthService implements signup, login, and session-identifier resolution.
// Signup and Login return a signed session token alongside the user.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// LoadUser resolves the identifier carried in a session token back to a
	// user, for the session middleware.
	LoadUser(ctx context.Context, id string) (*domain.User, error)
}
