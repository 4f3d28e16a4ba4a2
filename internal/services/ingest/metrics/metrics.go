// Package metrics exposes prometheus instruments for the ingestion pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockparty_ingest_runs_total",
		Help: "Total number of ingestion runs, labelled by outcome.",
	}, []string{"outcome"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blockparty_ingest_run_duration_seconds",
		Help:    "Wall-clock duration of a full ingestion run.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	CandidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockparty_ingest_candidates_total",
		Help: "Total candidates fetched, labelled by source.",
	}, []string{"source"})

	SavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockparty_ingest_saved_total",
		Help: "Total candidates persisted as new events.",
	})

	DedupDiscards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockparty_ingest_dedup_discards_total",
		Help: "Total candidates discarded as duplicates of stored events.",
	})

	AdapterFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockparty_ingest_adapter_failures_total",
		Help: "Total source-wide adapter failures, labelled by source.",
	}, []string{"source"})
)
