// Package metrics defines and registers all custom Prometheus metrics for
// the job tracker. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time via promauto;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobtrackr"

// ApplicationsCreatedTotal counts new applications by their initial status.
var ApplicationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_created_total",
		Help:      "Total number of job applications created, by initial status.",
	},
	[]string{"status"},
)

// StatusTransitionsTotal counts quick status transitions.
// Labels:
//   - status: the target status, or "unknown" when normalization failed
//   - result: "ok", "invalid_status", or "not_found"
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of quick status transitions, by target status and result.",
	},
	[]string{"status", "result"},
)

// ApplicationsDeletedTotal counts delete attempts.
// Label:
//   - result: "ok" or "not_found"
var ApplicationsDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_deleted_total",
		Help:      "Total number of application delete attempts, by result.",
	},
	[]string{"result"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts completed signups.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)
