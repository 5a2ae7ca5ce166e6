package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
	redisdb "github.com/jobtrackr/job-trackr/internal/infrastructure/db/redis"
)

type stubApplicationService struct {
	listFn         func(ctx context.Context, input ports.ListApplicationsInput) (*ports.DashboardResult, error)
	createFn       func(ctx context.Context, input ports.CreateApplicationInput) (*ports.ApplicationSummary, error)
	getFn          func(ctx context.Context, userID, id string) (*ports.ApplicationSummary, error)
	updateFn       func(ctx context.Context, input ports.UpdateApplicationInput) (*ports.ApplicationSummary, error)
	changeStatusFn func(ctx context.Context, userID, id, rawStatus string) error
	deleteFn       func(ctx context.Context, userID, id string) error
	statsFn        func(ctx context.Context, userID string) (ports.StatusBuckets, error)
}

func (s *stubApplicationService) List(ctx context.Context, input ports.ListApplicationsInput) (*ports.DashboardResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubApplicationService) Create(ctx context.Context, input ports.CreateApplicationInput) (*ports.ApplicationSummary, error) {
	return s.createFn(ctx, input)
}

func (s *stubApplicationService) Get(ctx context.Context, userID, id string) (*ports.ApplicationSummary, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubApplicationService) Update(ctx context.Context, input ports.UpdateApplicationInput) (*ports.ApplicationSummary, error) {
	return s.updateFn(ctx, input)
}

func (s *stubApplicationService) ChangeStatus(ctx context.Context, userID, id, rawStatus string) error {
	return s.changeStatusFn(ctx, userID, id, rawStatus)
}

func (s *stubApplicationService) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

func (s *stubApplicationService) Stats(ctx context.Context, userID string) (ports.StatusBuckets, error) {
	return s.statsFn(ctx, userID)
}

// memFlashStore keeps flash queues in a map so handler tests never touch
// Redis.
type memFlashStore struct {
	queues map[string][]redisdb.Flash
}

func newMemFlashStore() *memFlashStore {
	return &memFlashStore{queues: make(map[string][]redisdb.Flash)}
}

func (m *memFlashStore) Push(_ context.Context, key, category, message string) error {
	m.queues[key] = append(m.queues[key], redisdb.Flash{Category: category, Message: message})
	return nil
}

func (m *memFlashStore) PopAll(_ context.Context, key string) ([]redisdb.Flash, error) {
	msgs := m.queues[key]
	delete(m.queues, key)
	return msgs, nil
}

// all returns every queued message regardless of the minted cookie id.
func (m *memFlashStore) all() []redisdb.Flash {
	var out []redisdb.Flash
	for _, q := range m.queues {
		out = append(out, q...)
	}
	return out
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newFormContext(e *echo.Echo, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c)
	return c, rec
}

func newGetContext(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c)
	return c, rec
}

func authenticate(c echo.Context) {
	c.Set("user_id", "user-001")
	c.Set("email", "alice@example.com")
}

func TestApplicationHandler_Dashboard_PassesQueryThrough(t *testing.T) {
	e := newTestEcho()
	var got ports.ListApplicationsInput
	stub := &stubApplicationService{
		listFn: func(ctx context.Context, input ports.ListApplicationsInput) (*ports.DashboardResult, error) {
			got = input
			return &ports.DashboardResult{Page: 2, PageSize: 10, TotalPages: 3, Total: 25}, nil
		},
	}
	h := NewApplicationHandler(stub, &Flasher{store: newMemFlashStore()})

	c, rec := newGetContext(e, "/?q=acme&status=Interview&sort=deadline&page=2")
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if got.UserID != "user-001" || got.Search != "acme" || got.Status != "Interview" || got.Sort != "deadline" || got.Page != 2 {
		t.Fatalf("unexpected list input: %+v", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Pagination.Total != 25 || resp.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
	if resp.Filters.Query != "acme" || resp.Filters.Status != "Interview" {
		t.Fatalf("filters not echoed: %+v", resp.Filters)
	}
}

func TestApplicationHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		createFn: func(ctx context.Context, input ports.CreateApplicationInput) (*ports.ApplicationSummary, error) {
			if input.Company != "Acme" || input.Role != "SRE" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ApplicationSummary{ID: "app-001", Status: "applied"}, nil
		},
	}
	flashes := newMemFlashStore()
	h := NewApplicationHandler(stub, &Flasher{store: flashes})

	c, rec := newFormContext(e, "/add", url.Values{"company": {"Acme"}, "role": {"SRE"}})
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	msgs := flashes.all()
	if len(msgs) != 1 || msgs[0].Category != "info" {
		t.Fatalf("expected one info flash, got %+v", msgs)
	}
}

func TestApplicationHandler_Create_MissingFieldsEchoesForm(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		createFn: func(ctx context.Context, input ports.CreateApplicationInput) (*ports.ApplicationSummary, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewApplicationHandler(stub, &Flasher{store: newMemFlashStore()})

	c, rec := newFormContext(e, "/add", url.Values{"role": {"SRE"}, "deadline": {"2026-09-01"}})
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp applicationFormResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected validation error in response")
	}
	if resp.Form.Role != "SRE" || resp.Form.Deadline != "2026-09-01" {
		t.Fatalf("submitted values lost: %+v", resp.Form)
	}
}

func TestApplicationHandler_Update_MissingFieldsReturnsMergedState(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		updateFn: func(ctx context.Context, input ports.UpdateApplicationInput) (*ports.ApplicationSummary, error) {
			return &ports.ApplicationSummary{ID: "app-001", Role: "SRE", Notes: "merged"}, domain.ErrMissingFields
		},
	}
	h := NewApplicationHandler(stub, &Flasher{store: newMemFlashStore()})

	c, rec := newFormContext(e, "/edit/app-001", url.Values{"notes": {"merged"}})
	c.SetParamNames("id")
	c.SetParamValues("app-001")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp applicationFormResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Form.Notes != "merged" || resp.Form.Role != "SRE" {
		t.Fatalf("merged state not returned: %+v", resp.Form)
	}
}

func TestApplicationHandler_Update_NotFoundRedirects(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		updateFn: func(ctx context.Context, input ports.UpdateApplicationInput) (*ports.ApplicationSummary, error) {
			return nil, domain.ErrApplicationNotFound
		},
	}
	flashes := newMemFlashStore()
	h := NewApplicationHandler(stub, &Flasher{store: flashes})

	c, rec := newFormContext(e, "/edit/missing", url.Values{"company": {"Acme"}})
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	msgs := flashes.all()
	if len(msgs) != 1 || msgs[0].Category != "error" {
		t.Fatalf("expected one error flash, got %+v", msgs)
	}
}

func TestApplicationHandler_ChangeStatus_PreservesListingContext(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		changeStatusFn: func(ctx context.Context, userID, id, rawStatus string) error {
			if id != "app-001" || rawStatus != "interview" {
				t.Fatalf("unexpected args: %s %s", id, rawStatus)
			}
			return nil
		},
	}
	h := NewApplicationHandler(stub, &Flasher{store: newMemFlashStore()})

	form := url.Values{
		"status":                {"interview"},
		"q":                     {"acme"},
		"current_filter_status": {"applied"},
		"sort":                  {"deadline"},
		"page":                  {"2"},
	}
	c, rec := newFormContext(e, "/status/app-001", form)
	c.SetParamNames("id")
	c.SetParamValues("app-001")

	if err := h.ChangeStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	loc := rec.Header().Get(echo.HeaderLocation)
	if loc != "/?page=2&q=acme&sort=deadline&status=applied" {
		t.Fatalf("listing context not preserved: %q", loc)
	}
}

func TestApplicationHandler_ChangeStatus_InvalidStatusFlashes(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		changeStatusFn: func(ctx context.Context, userID, id, rawStatus string) error {
			return domain.ErrInvalidStatus
		},
	}
	flashes := newMemFlashStore()
	h := NewApplicationHandler(stub, &Flasher{store: flashes})

	c, rec := newFormContext(e, "/status/app-001", url.Values{"status": {"accepted"}})
	c.SetParamNames("id")
	c.SetParamValues("app-001")

	if err := h.ChangeStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	msgs := flashes.all()
	if len(msgs) != 1 || msgs[0].Category != "error" {
		t.Fatalf("expected one error flash, got %+v", msgs)
	}
}

func TestApplicationHandler_Delete_NotFoundFlashes(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		deleteFn: func(ctx context.Context, userID, id string) error {
			return domain.ErrApplicationNotFound
		},
	}
	flashes := newMemFlashStore()
	h := NewApplicationHandler(stub, &Flasher{store: flashes})

	c, rec := newFormContext(e, "/delete/gone", url.Values{})
	c.SetParamNames("id")
	c.SetParamValues("gone")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	msgs := flashes.all()
	if len(msgs) != 1 || msgs[0].Category != "error" {
		t.Fatalf("expected one error flash, got %+v", msgs)
	}
}

func TestApplicationHandler_Stats_ReturnsBuckets(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		statsFn: func(ctx context.Context, userID string) (ports.StatusBuckets, error) {
			return ports.StatusBuckets{Applied: 3, Interviewing: 2, Offer: 1, Total: 6}, nil
		},
	}
	h := NewApplicationHandler(stub, &Flasher{store: newMemFlashStore()})

	c, rec := newGetContext(e, "/stats")
	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ports.StatusBuckets
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Applied != 3 || resp.Total != 6 {
		t.Fatalf("unexpected buckets: %+v", resp)
	}
}

func TestApplicationHandler_Dashboard_MissingIdentity(t *testing.T) {
	e := newTestEcho()
	h := NewApplicationHandler(&stubApplicationService{}, &Flasher{store: newMemFlashStore()})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Dashboard(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
