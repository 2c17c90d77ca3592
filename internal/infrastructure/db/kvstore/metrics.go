package kvstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// indexAppendFailuresTotal counts index appends that failed after a
// successful entity write. These leave the entity recoverable only by an
// index rebuild, so they are worth alerting on.
// Label:
//   - index: "user-listings" or "conversation"
var indexAppendFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "campus_market",
		Name:      "index_append_failures_total",
		Help:      "Total number of failed derived-index appends, by index.",
	},
	[]string{"index"},
)
