// Package metrics defines and registers all custom Prometheus metrics for
// the FarmConnect marketplace API. It is the single source of truth for
// metric names, labels, and help strings.
//
// Collectors are registered with the default Prometheus registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "farmconnect"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-token rotations.
// Label:
//   - result: "success" or "failure"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh-token rotation attempts, by result.",
	},
	[]string{"result"},
)

// TokenReuseDetectedTotal counts rotations rejected because the presented
// refresh token no longer matches the stored one — the replay/theft signal.
var TokenReuseDetectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_reuse_detected_total",
		Help:      "Total number of refresh-token reuse rejections.",
	},
)

// AuthzDeniedTotal counts role-gate rejections.
// Label:
//   - gate: the category the gate required (e.g. "admin")
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests rejected by a role gate.",
	},
	[]string{"gate"},
)

// ── Contract metrics ──────────────────────────────────────────────────────────

// ContractsCreatedTotal counts newly published contract offers.
// Label:
//   - crop: the contracted crop
var ContractsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_created_total",
		Help:      "Total number of contract offers created, by crop.",
	},
	[]string{"crop"},
)

// ContractStatusChangesTotal counts contract state-machine transitions.
// Label:
//   - status: the new contract status
var ContractStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contract_status_changes_total",
		Help:      "Total number of contract status transitions applied, by new status.",
	},
	[]string{"status"},
)
