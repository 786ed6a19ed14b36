// Package metrics exposes sync counters for the serve daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsSynced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actsync",
		Name:      "events_synced_total",
		Help:      "Events confirmed synced, by destination and role",
	}, []string{"destination", "role"})

	EventsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actsync",
		Name:      "events_failed_total",
		Help:      "Events whose bucket push failed, by destination and role",
	}, []string{"destination", "role"})

	EventsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "actsync",
		Name:      "events_ingested_total",
		Help:      "Raw events fetched from sources, by outcome",
	}, []string{"outcome"})

	CycleDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "actsync",
		Name:      "cycle_duration_seconds",
		Help:      "Time spent in one ingest+sync cycle",
	})

	LastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "actsync",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last fully successful sync per destination",
	}, []string{"destination"})
)

func init() {
	prometheus.MustRegister(
		EventsSynced,
		EventsFailed,
		EventsIngested,
		CycleDuration,
		LastSuccess,
	)
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
