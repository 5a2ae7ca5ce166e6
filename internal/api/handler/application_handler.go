package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jobtrackr/job-trackr/internal/api/metrics"
	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

// ApplicationHandler handles HTTP requests for the application registry:
// dashboard listing, add/edit forms, quick status changes, delete and stats.
type ApplicationHandler struct {
	service ports.ApplicationService
	flash   *Flasher
}

func NewApplicationHandler(service ports.ApplicationService, flash *Flasher) *ApplicationHandler {
	return &ApplicationHandler{service: service, flash: flash}
}

// Dashboard handles GET /. Query parameters: q (search), status (filter),
// sort (deadline|updated), page (1-based).
func (h *ApplicationHandler) Dashboard(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	input := ports.ListApplicationsInput{
		UserID: userID,
		Search: strings.TrimSpace(c.QueryParam("q")),
		Status: c.QueryParam("status"),
		Sort:   c.QueryParam("sort"),
		Page:   page,
	}

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDashboardResponse(result, input, h.flash.Pop(c)))
}

// NewForm handles GET /add and returns the blank add-form model.
func (h *ApplicationHandler) NewForm(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationFormResponse{
		Form:     applicationResponse{Status: string(domain.StatusApplied)},
		Statuses: statusNames(),
		Flash:    toFlashResponses(h.flash.Pop(c)),
	})
}

// Create handles POST /add. Validation failures re-render the form with the
// submitted values so nothing is lost; success flashes and redirects to the
// dashboard.
func (h *ApplicationHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	req.Company = strings.TrimSpace(req.Company)
	req.Role = strings.TrimSpace(req.Role)
	if err := c.Validate(&req); err != nil {
		return h.formError(c, req, domain.ErrMissingFields.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateApplicationInput{
		UserID:   userID,
		Company:  req.Company,
		Role:     req.Role,
		Status:   req.Status,
		Deadline: req.Deadline,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) || errors.Is(err, domain.ErrInvalidStatus) {
			return h.formError(c, req, err.Error())
		}
		return err
	}

	metrics.ApplicationsCreatedTotal.WithLabelValues(created.Status).Inc()
	h.flash.Add(c, "info", "Application added successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// EditForm handles GET /edit/:id.
func (h *ApplicationHandler) EditForm(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			h.flash.Add(c, "error", domain.ErrApplicationNotFound.Error())
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	return c.JSON(http.StatusOK, applicationFormResponse{
		Form:     toApplicationResponse(*summary),
		Statuses: statusNames(),
		Flash:    toFlashResponses(h.flash.Pop(c)),
	})
}

// Update handles POST /edit/:id. Empty fields keep the stored values; a
// merge that ends with empty company or role is rejected and the merged,
// unsaved state is returned so the form can be re-rendered.
func (h *ApplicationHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}

	summary, err := h.service.Update(c.Request().Context(), ports.UpdateApplicationInput{
		UserID:      userID,
		ID:          c.Param("id"),
		Company:     req.Company,
		Role:        req.Role,
		Status:      req.Status,
		Deadline:    req.Deadline,
		AppliedDate: req.AppliedDate,
		Link:        req.Link,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			form := applicationFormResponse{
				Statuses: statusNames(),
				Error:    err.Error(),
			}
			if summary != nil {
				form.Form = toApplicationResponse(*summary)
			}
			return c.JSON(http.StatusUnprocessableEntity, form)
		case errors.Is(err, domain.ErrInvalidStatus):
			return h.formError(c, updateToCreateEcho(req), err.Error())
		case errors.Is(err, domain.ErrApplicationNotFound):
			h.flash.Add(c, "error", domain.ErrApplicationNotFound.Error())
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	h.flash.Add(c, "info", "Application updated successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// ChangeStatus handles POST /status/:id, the one-click transition from the
// dashboard. The caller's listing context (q, current_filter_status, sort,
// page) is carried through the redirect so the view does not reset.
func (h *ApplicationHandler) ChangeStatus(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req statusChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}

	target := req.Status
	err = h.service.ChangeStatus(c.Request().Context(), userID, c.Param("id"), target)
	switch {
	case err == nil:
		metrics.StatusTransitionsTotal.WithLabelValues(metricStatusLabel(target), "ok").Inc()
		h.flash.Add(c, "info", "Status updated successfully!")
	case errors.Is(err, domain.ErrInvalidStatus):
		metrics.StatusTransitionsTotal.WithLabelValues(metricStatusLabel(target), "invalid_status").Inc()
		h.flash.Add(c, "error", domain.ErrInvalidStatus.Error())
	case errors.Is(err, domain.ErrApplicationNotFound):
		metrics.StatusTransitionsTotal.WithLabelValues(metricStatusLabel(target), "not_found").Inc()
		h.flash.Add(c, "error", domain.ErrApplicationNotFound.Error())
	default:
		return err
	}

	return c.Redirect(http.StatusSeeOther, dashboardURL(req))
}

// Delete handles POST /delete/:id. Deleting an already-deleted id reports
// "not found", not an error.
func (h *ApplicationHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			metrics.ApplicationsDeletedTotal.WithLabelValues("not_found").Inc()
			h.flash.Add(c, "error", domain.ErrApplicationNotFound.Error())
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	metrics.ApplicationsDeletedTotal.WithLabelValues("ok").Inc()
	h.flash.Add(c, "info", "Application deleted successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Stats handles GET /stats: the alias-merged status counts over all of the
// user's applications.
func (h *ApplicationHandler) Stats(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	buckets, err := h.service.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buckets)
}

func (h *ApplicationHandler) formError(c echo.Context, req createApplicationRequest, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, applicationFormResponse{
		Form: applicationResponse{
			Company:  req.Company,
			Role:     req.Role,
			Status:   req.Status,
			Deadline: req.Deadline,
		},
		Statuses: statusNames(),
		Error:    msg,
	})
}

func updateToCreateEcho(req updateApplicationRequest) createApplicationRequest {
	return createApplicationRequest{
		Company:  req.Company,
		Role:     req.Role,
		Status:   req.Status,
		Deadline: req.Deadline,
	}
}

// dashboardURL rebuilds the listing URL from the context echoed through a
// status-change form, dropping empty values.
func dashboardURL(req statusChangeRequest) string {
	q := url.Values{}
	if req.Query != "" {
		q.Set("q", req.Query)
	}
	if req.FilterStatus != "" {
		q.Set("status", req.FilterStatus)
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	if req.Page != "" {
		q.Set("page", req.Page)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func metricStatusLabel(raw string) string {
	if normalized, ok := domain.NormalizeStatus(raw); ok {
		return string(normalized)
	}
	return "unknown"
}
