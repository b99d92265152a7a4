package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microme_pipeline_runs_total",
		Help: "Pipeline runs by final status",
	}, []string{"status"})

	stageOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microme_pipeline_stage_outcomes_total",
		Help: "Stage outcomes by stage and result",
	}, []string{"stage", "outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "microme_pipeline_run_duration_seconds",
		Help:    "End-to-end pipeline run duration",
		Buckets: prometheus.DefBuckets,
	})
)
