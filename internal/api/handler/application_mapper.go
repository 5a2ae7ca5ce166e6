package handler

import (
	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
	redisdb "github.com/jobtrackr/job-trackr/internal/infrastructure/db/redis"
)

func toApplicationResponse(s ports.ApplicationSummary) applicationResponse {
	return applicationResponse{
		ID:          s.ID,
		Company:     s.Company,
		Role:        s.Role,
		Status:      s.Status,
		Deadline:    s.Deadline,
		AppliedDate: s.AppliedDate,
		Link:        s.Link,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toDashboardResponse(r *ports.DashboardResult, in ports.ListApplicationsInput, flash []redisdb.Flash) dashboardResponse {
	items := make([]applicationResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, toApplicationResponse(it))
	}
	upcoming := make([]upcomingResponse, 0, len(r.Upcoming))
	for _, u := range r.Upcoming {
		upcoming = append(upcoming, upcomingResponse{Company: u.Company, Role: u.Role, Deadline: u.Deadline})
	}
	return dashboardResponse{
		Applications: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			PageSize:   r.PageSize,
			TotalPages: r.TotalPages,
		},
		Stats:    r.Stats,
		Upcoming: upcoming,
		Filters:  filtersResponse{Query: in.Search, Status: in.Status, Sort: in.Sort},
		Flash:    toFlashResponses(flash),
	}
}

func toFlashResponses(flash []redisdb.Flash) []flashResponse {
	if len(flash) == 0 {
		return nil
	}
	out := make([]flashResponse, 0, len(flash))
	for _, f := range flash {
		out = append(out, flashResponse{Category: f.Category, Message: f.Message})
	}
	return out
}

func statusNames() []string {
	all := domain.Statuses()
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, string(s))
	}
	return names
}
