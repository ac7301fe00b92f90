// Package metrics defines and registers the custom Prometheus metrics for the
// commerce API. It is the single source of truth for metric names, labels,
// and help strings. All metrics self-register with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commerce"

// OrdersPlacedTotal counts order placement attempts by outcome.
// Label:
//   - result: "completed", "insufficient_stock", "conflict", or "error"
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of order placement attempts, by result.",
	},
	[]string{"result"},
)

// OrderPlacementDuration measures the end-to-end latency of a successful
// placement, pre-check through transaction commit.
var OrderPlacementDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_placement_duration_seconds",
		Help:      "Duration of successful order placements.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ProductsCreatedTotal counts catalog additions.
var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	},
)

// ProductCacheTotal counts product list cache lookups.
// Label:
//   - result: "hit" or "miss"
var ProductCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_cache_total",
		Help:      "Total number of product list cache lookups, by result.",
	},
	[]string{"result"},
)
