package ports

import (
	"context"
	"time"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
)

// ListApplicationsFilter carries the query parameters for listing a user's
// applications. UserID is always set by the service layer; repositories must
// match it against both the typed identifier and its string form (legacy
// documents predate the ObjectID migration).
type ListApplicationsFilter struct {
	UserID string        // owner scope, never empty
	Search string        // optional: case-insensitive substring on company or role
	Status domain.Status // optional: exact normalized match
	Sort   string        // "deadline" = deadline ascending; anything else = updated_at descending
	Skip   int64
	Limit  int64
}

// ApplicationRepository defines persistence operations for job applications.
// Every read and write is scoped to the owning user.
type ApplicationRepository interface {
	// Insert stores a new application and returns its generated id as a string.
	Insert(ctx context.Context, app *domain.Application) (string, error)
	// FindByID retrieves one application scoped to (id AND owner). A malformed
	// id, a missing document, and a foreign owner all yield
	// domain.ErrApplicationNotFound.
	FindByID(ctx context.Context, id, userID string) (*domain.Application, error)
	// List returns one page of matching applications plus the total match count.
	List(ctx context.Context, filter ListApplicationsFilter) ([]*domain.Application, int64, error)
	// Update replaces the editable fields of app, matched by (app.ID AND app.UserID).
	Update(ctx context.Context, app *domain.Application) error
	// SetStatus updates status and updated_at on the (id AND owner) match.
	SetStatus(ctx context.Context, id, userID string, status domain.Status, updatedAt time.Time) error
	// Delete removes the (id AND owner) match and returns the number of
	// documents removed (0 or 1).
	Delete(ctx context.Context, id, userID string) (int64, error)
	// CountByStatus groups all of the user's applications by their
	// case-normalized raw status value.
	CountByStatus(ctx context.Context, userID string) (map[string]int64, error)
	// Upcoming returns applications with a deadline in [from, to] (inclusive,
	// YYYY-MM-DD strings) whose status is not terminal, ascending by deadline,
	// capped at limit.
	Upcoming(ctx context.Context, userID, from, to string, limit int64) ([]domain.UpcomingApplication, error)
}
