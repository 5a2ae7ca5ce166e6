package handler

import (
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

// --- Request types (form posts from the rendered pages) ---

type createApplicationRequest struct {
	Company  string `form:"company"  json:"company"  validate:"required"`
	Role     string `form:"role"     json:"role"     validate:"required"`
	Status   string `form:"status"   json:"status"`
	Deadline string `form:"deadline" json:"deadline"`
}

// updateApplicationRequest carries the edit form. Empty fields mean "keep
// the stored value"; the merge happens in the service.
type updateApplicationRequest struct {
	Company     string `form:"company"      json:"company"`
	Role        string `form:"role"         json:"role"`
	Status      string `form:"status"       json:"status"`
	Deadline    string `form:"deadline"     json:"deadline"`
	AppliedDate string `form:"applied_date" json:"applied_date"`
	Link        string `form:"link"         json:"link"`
	Notes       string `form:"notes"        json:"notes"`
}

// statusChangeRequest carries the quick-transition form plus the caller's
// listing context, echoed back into the redirect.
type statusChangeRequest struct {
	Status       string `form:"status" validate:"required"`
	Query        string `form:"q"`
	FilterStatus string `form:"current_filter_status"`
	Sort         string `form:"sort"`
	Page         string `form:"page"`
}

// --- Response types ---
// Plain data only: ids are strings, timestamps RFC3339, no store handles.

type applicationResponse struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Deadline    string `json:"deadline,omitempty"`
	AppliedDate string `json:"applied_date,omitempty"`
	Link        string `json:"link,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type upcomingResponse struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Deadline string `json:"deadline"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type filtersResponse struct {
	Query  string `json:"q"`
	Status string `json:"status"`
	Sort   string `json:"sort"`
}

type flashResponse struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type dashboardResponse struct {
	Applications []applicationResponse `json:"applications"`
	Pagination   paginationResponse    `json:"pagination"`
	Stats        ports.StatusBuckets   `json:"stats"`
	Upcoming     []upcomingResponse    `json:"upcoming"`
	Filters      filtersResponse       `json:"filters"`
	Flash        []flashResponse       `json:"flash,omitempty"`
}

// applicationFormResponse is the add/edit page model. On validation failure
// it carries the submitted (create) or merged-but-unsaved (edit) state so
// the form re-renders without losing input.
type applicationFormResponse struct {
	Form     applicationResponse `json:"form"`
	Statuses []string            `json:"statuses"`
	Error    string              `json:"error,omitempty"`
	Flash    []flashResponse     `json:"flash,omitempty"`
}
