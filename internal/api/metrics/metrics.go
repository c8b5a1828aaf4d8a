// Package metrics defines and registers all custom Prometheus metrics for the
// Stepwise API. It is the single source of truth for metric names, labels,
// and help strings. Registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stepwise"

// ── Demo metrics ──────────────────────────────────────────────────────────────

// DemosCreatedTotal counts newly created demos.
// Label:
//   - source: "create" or "duplicate"
var DemosCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "demos_created_total",
		Help:      "Total number of demos created, by source.",
	},
	[]string{"source"},
)

// DemoCacheTotal counts public-demo cache lookups.
// Label:
//   - result: "hit" or "miss"
var DemoCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "demo_cache_total",
		Help:      "Total number of demo cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Step metrics ──────────────────────────────────────────────────────────────

// StepReordersTotal counts reorder operations that committed.
var StepReordersTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "step_reorders_total",
		Help:      "Total number of committed step reorder operations.",
	},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts image uploads.
// Label:
//   - status: "ok", "rejected", or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image uploads, by outcome.",
	},
	[]string{"status"},
)

// UploadBytes measures the size of accepted uploads.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_bytes",
		Help:      "Size distribution of accepted image uploads.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
	},
)
