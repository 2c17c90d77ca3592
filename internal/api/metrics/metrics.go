// Package metrics defines and registers the API-layer Prometheus metrics
// for the campus market service. Infrastructure packages own their metrics
// locally; promauto registers everything with the default registry at init
// time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus_market"

// SignupsTotal counts successfully created accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// ListingsCreatedTotal counts new listings by type.
// Label:
//   - type: "housing" or "marketplace"
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by listing type.",
	},
	[]string{"type"},
)

// ListingStatusTransitionsTotal counts status changes applied through the
// listing service.
// Label:
//   - to: the new status ("active", "pending", "sold", "deleted")
var ListingStatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_status_transitions_total",
		Help:      "Total number of listing status transitions, by target status.",
	},
	[]string{"to"},
)

// MessagesSentTotal counts contact messages persisted.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of contact messages sent.",
	},
)
