// Package metrics holds the process-wide prometheus collectors, exposed on
// /metrics by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuildsStarted counts builds that opened an event stream.
	BuildsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackscout_builds_started_total",
		Help: "Number of build requests that opened an event stream.",
	})

	// BuildsCompleted counts builds that reached the terminal done event.
	BuildsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackscout_builds_completed_total",
		Help: "Number of builds that emitted a terminal done event.",
	})

	// BuildsFailed counts builds aborted by a fatal classification error.
	BuildsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackscout_builds_failed_total",
		Help: "Number of builds aborted before producing results.",
	})

	// EventsEmitted counts stream events by type.
	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackscout_stream_events_total",
		Help: "Number of stream events emitted, by event type.",
	}, []string{"type"})

	// CatalogFallbacks counts catalog lookups served from the static tables.
	CatalogFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackscout_catalog_fallbacks_total",
		Help: "Number of catalog searches answered by fallback data, by kind.",
	}, []string{"kind"})

	// PreviewFailures counts preview fetches that yielded no metadata.
	PreviewFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackscout_preview_failures_total",
		Help: "Number of preview fetches that returned empty metadata.",
	})
)
