// Package metrics defines and registers all custom Prometheus metrics for the
// Luminara platform API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time and are
// exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "luminara"

// SignupsTotal counts created accounts.
// Label:
//   - provider: "email", "github" or "discord"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by provider.",
	},
	[]string{"provider"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "unverified"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of email login attempts, by result.",
	},
	[]string{"result"},
)

// VerificationMailsTotal counts outbound verification mails.
// Label:
//   - outcome: "sent" or "failed"
var VerificationMailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_mails_total",
		Help:      "Total number of verification emails attempted, by outcome.",
	},
	[]string{"outcome"},
)

// VerificationsRedeemedTotal counts successfully redeemed verification tokens.
var VerificationsRedeemedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_redeemed_total",
		Help:      "Total number of email verification tokens redeemed.",
	},
)

// SubdomainClaimsTotal counts subdomain claim attempts.
// Label:
//   - result: "created", "conflict" or "invalid"
var SubdomainClaimsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subdomain_claims_total",
		Help:      "Total number of subdomain claim attempts, by result.",
	},
	[]string{"result"},
)

// AdminTokensIssuedTotal counts issued (or regenerated) admin tokens.
var AdminTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_tokens_issued_total",
		Help:      "Total number of subdomain admin tokens issued.",
	},
)
