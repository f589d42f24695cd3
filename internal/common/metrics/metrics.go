// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	// StageDuration times each pipeline stage, labelled by outcome (ok, error, degraded).
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_stage_duration_seconds",
			Help:    "Duration of evaluation pipeline stages",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage", "outcome"},
	)

	ScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_scores_total",
			Help: "Assessment scores produced, by scoring method and eligibility",
		},
		[]string{"scoring_method", "eligibility"},
	)

	ViewRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_view_renders_total",
			Help: "Stakeholder view renders by audience and result",
		},
		[]string{"audience", "result"},
	)

	SearchCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_search_cache_lookups_total",
			Help: "Web search cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
