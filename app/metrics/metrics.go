// Package metrics exposes Prometheus instrumentation for the placement core.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Import pipeline counters partitioned by source document outcome
	ImportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kura_import_runs_total",
			Help: "Total number of transcript import runs",
		},
		[]string{"outcome"},
	)

	RecordsImportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kura_records_imported_total",
			Help: "Total number of position records created by imports",
		},
	)

	RecordsUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kura_records_updated_total",
			Help: "Total number of position records overwritten by re-imports",
		},
	)

	LinesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kura_lines_skipped_total",
			Help: "Total number of transcript lines skipped as unparseable",
		},
	)

	// Workflow counters partitioned by decision status
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kura_decisions_total",
			Help: "Total number of recorded preference decisions",
		},
		[]string{"status"},
	)

	NotificationsEmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kura_notifications_emitted_total",
			Help: "Total number of notifications emitted by the workflow",
		},
	)
)

// Serve starts a metrics endpoint on the given address. It blocks, so run it
// in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
