package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

const (
	pageSize         = 10
	upcomingWindow   = 14 // days
	upcomingMaxItems = 5
)

// ApplicationService implements the registry use cases over a document-store
// repository.
type ApplicationService struct {
	repo   ports.ApplicationRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewApplicationService(repo ports.ApplicationRepository, logger zerolog.Logger) *ApplicationService {
	return &ApplicationService{repo: repo, logger: logger, now: time.Now}
}

// List produces one page of the user's applications matching the filter,
// plus the filter-independent aggregates (status buckets over everything the
// user owns, and upcoming deadlines).
func (s *ApplicationService) List(ctx context.Context, input ports.ListApplicationsInput) (*ports.DashboardResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	filter := ports.ListApplicationsFilter{
		UserID: input.UserID,
		Search: strings.TrimSpace(input.Search),
		Sort:   input.Sort,
		Skip:   int64(page-1) * pageSize,
		Limit:  pageSize,
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		if st, ok := domain.NormalizeStatus(raw); ok {
			filter.Status = st
		} else {
			filter.Status = domain.Status(strings.ToLower(raw))
		}
	}

	apps, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to list applications")
		return nil, err
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	stats, err := s.Stats(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Format("2006-01-02")
	horizon := s.now().UTC().AddDate(0, 0, upcomingWindow).Format("2006-01-02")
	upcoming, err := s.repo.Upcoming(ctx, input.UserID, today, horizon, upcomingMaxItems)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to load upcoming deadlines")
		return nil, err
	}

	items := make([]ports.ApplicationSummary, 0, len(apps))
	for _, app := range apps {
		items = append(items, toSummary(app))
	}

	return &ports.DashboardResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Stats:      stats,
		Upcoming:   upcoming,
	}, nil
}

// Create validates and inserts a new application for the user. Status
// defaults to "applied" when absent.
func (s *ApplicationService) Create(ctx context.Context, input ports.CreateApplicationInput) (*ports.ApplicationSummary, error) {
	company := strings.TrimSpace(input.Company)
	role := strings.TrimSpace(input.Role)
	if company == "" || role == "" {
		return nil, domain.ErrMissingFields
	}

	status := domain.StatusApplied
	if raw := strings.TrimSpace(input.Status); raw != "" {
		st, ok := domain.NormalizeStatus(raw)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		status = st
	}

	now := s.now().UTC()
	app := &domain.Application{
		UserID:    input.UserID,
		Company:   company,
		Role:      role,
		Status:    status,
		Deadline:  strings.TrimSpace(input.Deadline),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.Insert(ctx, app)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create application")
		return nil, err
	}
	app.ID = id

	s.logger.Info().Str("application_id", id).Str("company", company).Str("status", string(status)).Msg("application created")

	summary := toSummary(app)
	return &summary, nil
}

// Get fetches one application scoped to its owner, for the edit form.
func (s *ApplicationService) Get(ctx context.Context, userID, id string) (*ports.ApplicationSummary, error) {
	app, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	summary := toSummary(app)
	return &summary, nil
}

// Update merges the submitted fields over the stored record: a non-empty
// submitted value wins, an empty one retains what is stored. Date fields are
// canonicalized, status is normalized when submitted. On ErrMissingFields
// the merged (unsaved) state is returned so the caller can re-render it.
func (s *ApplicationService) Update(ctx context.Context, input ports.UpdateApplicationInput) (*ports.ApplicationSummary, error) {
	existing, err := s.repo.FindByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	merged.Company = fallback(strings.TrimSpace(input.Company), existing.Company)
	merged.Role = fallback(strings.TrimSpace(input.Role), existing.Role)
	merged.Link = fallback(strings.TrimSpace(input.Link), existing.Link)
	merged.Notes = fallback(strings.TrimSpace(input.Notes), existing.Notes)

	if raw := strings.TrimSpace(input.Status); raw != "" {
		// The edit flow accepts the full status set, including "accepted".
		if st, ok := domain.NormalizeStatus(raw); ok {
			merged.Status = st
		} else {
			return nil, domain.ErrInvalidStatus
		}
	}
	if raw := strings.TrimSpace(input.Deadline); raw != "" {
		merged.Deadline = domain.NormalizeDate(raw)
	}
	if raw := strings.TrimSpace(input.AppliedDate); raw != "" {
		merged.AppliedDate = domain.NormalizeDate(raw)
	}

	if merged.Company == "" || merged.Role == "" {
		unsaved := toSummary(&merged)
		return &unsaved, domain.ErrMissingFields
	}

	merged.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, &merged); err != nil {
		s.logger.Error().Err(err).Str("application_id", input.ID).Msg("failed to update application")
		return nil, err
	}

	s.logger.Info().Str("application_id", input.ID).Msg("application updated")

	summary := toSummary(&merged)
	return &summary, nil
}

// ChangeStatus applies the quick status transition. The raw value is
// normalized through the alias table and must be a quick-transition target;
// "accepted" is rejected here and only reachable via Update.
func (s *ApplicationService) ChangeStatus(ctx context.Context, userID, id, rawStatus string) error {
	status, ok := domain.NormalizeStatus(rawStatus)
	if !ok || !status.IsTransitionTarget() {
		return domain.ErrInvalidStatus
	}

	if _, err := s.repo.FindByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.SetStatus(ctx, id, userID, status, s.now().UTC()); err != nil {
		s.logger.Error().Err(err).Str("application_id", id).Msg("failed to change status")
		return err
	}

	s.logger.Info().Str("application_id", id).Str("status", string(status)).Msg("status changed")
	return nil
}

// Delete removes the user's application. A zero-row delete reports
// ErrApplicationNotFound, which also makes repeated deletes idempotent from
// the caller's perspective.
func (s *ApplicationService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("application_id", id).Msg("failed to delete application")
		return err
	}
	if deleted == 0 {
		return domain.ErrApplicationNotFound
	}

	s.logger.Info().Str("application_id", id).Msg("application deleted")
	return nil
}

// Stats buckets the user's applications by status, merging aliases, always
// over the unfiltered set.
func (s *ApplicationService) Stats(ctx context.Context, userID string) (ports.StatusBuckets, error) {
	raw, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to aggregate status counts")
		return ports.StatusBuckets{}, err
	}
	return bucketCounts(raw), nil
}

// bucketCounts folds raw case-normalized status counts into the fixed
// display buckets. Statuses outside the known set (legacy free text) still
// contribute to the bucket their alias resolves to, or are dropped.
func bucketCounts(raw map[string]int64) ports.StatusBuckets {
	var b ports.StatusBuckets
	for status, n := range raw {
		st, ok := domain.NormalizeStatus(status)
		if !ok {
			continue
		}
		switch st {
		case domain.StatusApplied:
			b.Applied += n
		case domain.StatusInterviewing:
			b.Interviewing += n
		case domain.StatusOffer:
			b.Offer += n
		case domain.StatusRejected:
			b.Rejected += n
		case domain.StatusAccepted:
			b.Accepted += n
		}
	}
	b.Total = b.Applied + b.Interviewing + b.Offer + b.Rejected + b.Accepted
	return b
}

func fallback(submitted, stored string) string {
	if submitted != "" {
		return submitted
	}
	return stored
}

// toSummary renders an application as plain data: stringified id, RFC3339
// timestamps, no store-native types.
func toSummary(app *domain.Application) ports.ApplicationSummary {
	return ports.ApplicationSummary{
		ID:          app.ID,
		Company:     app.Company,
		Role:        app.Role,
		Status:      string(app.Status),
		Deadline:    app.Deadline,
		AppliedDate: app.AppliedDate,
		Link:        app.Link,
		Notes:       app.Notes,
		CreatedAt:   app.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   app.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
