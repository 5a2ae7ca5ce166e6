package ports

import (
	"context"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
)

// ListApplicationsInput carries the raw dashboard query parameters.
type ListApplicationsInput struct {
	UserID string
	Search string
	Status string // raw filter value, normalized by the service
	Sort   string
	Page   int // 1-based, clamped by the service
}

// ApplicationSummary is the list-item view. ID is the stringified document
// id and timestamps are RFC3339 so the rendering layer never touches a
// store-native handle.
type ApplicationSummary struct {
	ID          string
	Company     string
	Role        string
	Status      string
	Deadline    string
	AppliedDate string
	Link        string
	Notes       string
	CreatedAt   string
	UpdatedAt   string
}

// StatusBuckets holds the alias-merged status counts over ALL of a user's
// applications, independent of any active filter.
type StatusBuckets struct {
	Applied      int64 `json:"applied"`
	Interviewing int64 `json:"interviewing"`
	Offer        int64 `json:"offer"`
	Rejected     int64 `json:"rejected"`
	Accepted     int64 `json:"accepted"`
	Total        int64 `json:"total"`
}

// DashboardResult is the full payload for the listing page.
type DashboardResult struct {
	Items      []ApplicationSummary
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
	Stats      StatusBuckets
	Upcoming   []domain.UpcomingApplication
}

// CreateApplicationInput is the add-form payload.
type CreateApplicationInput struct {
	UserID   string
	Company  string
	Role     string
	Status   string // optional; defaults to "applied"
	Deadline string // optional; stored verbatim
}

// UpdateApplicationInput is the edit-form payload. Empty fields retain the
// stored value (field-level fallback, not a destructive overwrite).
type UpdateApplicationInput struct {
	UserID      string
	ID          string
	Company     string
	Role        string
	Status      string
	Deadline    string
	AppliedDate string
	Link        string
	Notes       string
}

// ApplicationService defines the registry use cases: CRUD, quick status
// transition, and the read-only aggregations for the dashboard.
type ApplicationService interface {
	List(ctx context.Context, input ListApplicationsInput) (*DashboardResult, error)
	Create(ctx context.Context, input CreateApplicationInput) (*ApplicationSummary, error)
	Get(ctx context.Context, userID, id string) (*ApplicationSummary, error)
	// Update merges input over the stored record. On domain.ErrMissingFields
	// the returned summary carries the merged, unsaved state so the edit form
	// can be re-rendered without losing input.
	Update(ctx context.Context, input UpdateApplicationInput) (*ApplicationSummary, error)
	ChangeStatus(ctx context.Context, userID, id, rawStatus string) error
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (StatusBuckets, error)
}
