package domain

import (
	"errors"
	"strings"
	"time"
)

// Status represents the lifecycle state of a job application.
type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
	StatusAccepted     Status = "accepted"
)

// statusAliases maps free-text variants submitted by users onto canonical
// statuses before membership is checked.
var statusAliases = map[string]Status{
	"interview": StatusInterviewing,
	"offered":   StatusOffer,
}

var allStatuses = map[Status]struct{}{
	StatusApplied:      {},
	StatusInterviewing: {},
	StatusOffer:        {},
	StatusRejected:     {},
	StatusAccepted:     {},
}

// transitionTargets is the set reachable through the quick status-transition
// endpoint. "accepted" is not in it; that status is only reachable via the
// full edit flow.
var transitionTargets = map[Status]struct{}{
	StatusApplied:      {},
	StatusInterviewing: {},
	StatusOffer:        {},
	StatusRejected:     {},
}

var ErrApplicationNotFound = errors.New("application not found or unauthorized")
var ErrInvalidStatus = errors.New("invalid status")
var ErrMissingFields = errors.New("company and role are required")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUserExists = errors.New("email already registered")
var ErrUserNotFound = errors.New("user not found")
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// NormalizeStatus lowercases and trims raw, resolves known aliases, and
// reports whether the result is a member of the full status set.
func NormalizeStatus(raw string) (Status, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := statusAliases[s]; ok {
		return alias, true
	}
	st := Status(s)
	_, ok := allStatuses[st]
	return st, ok
}

// IsTransitionTarget reports whether s may be set through the quick
// transition operation.
func (s Status) IsTransitionTarget() bool {
	_, ok := transitionTargets[s]
	return ok
}

// Terminal reports whether s excludes an application from the upcoming
// deadline view.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusAccepted
}

// Statuses returns every canonical status, in display order.
func Statuses() []Status {
	return []Status{StatusApplied, StatusInterviewing, StatusOffer, StatusRejected, StatusAccepted}
}

// dateLayouts are the accepted input formats for deadline and applied_date.
var dateLayouts = []string{"2006-01-02", "2006/01/02"}

// NormalizeDate converts YYYY-MM-DD or YYYY/MM/DD into canonical YYYY-MM-DD.
// Anything unparseable is returned as submitted rather than rejected.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// Application is the core aggregate: one tracked job application owned by
// exactly one user. Deadline and AppliedDate are calendar-date strings
// (YYYY-MM-DD), empty when absent.
type Application struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Company     string    `json:"company" bson:"company"`
	Role        string    `json:"role" bson:"role"`
	Status      Status    `json:"status" bson:"status"`
	Deadline    string    `json:"deadline,omitempty" bson:"deadline,omitempty"`
	AppliedDate string    `json:"applied_date,omitempty" bson:"applied_date,omitempty"`
	Link        string    `json:"link,omitempty" bson:"link,omitempty"`
	Notes       string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// UpcomingApplication is the projection used by the upcoming-deadlines view.
type UpcomingApplication struct {
	Company  string `json:"company" bson:"company"`
	Role     string `json:"role" bson:"role"`
	Deadline string `json:"deadline" bson:"deadline"`
}
