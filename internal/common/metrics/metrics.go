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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// RateCacheLookups counts rate catalog reads by result: hit, miss, bypass, error.
	RateCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_catalog_cache_lookups_total",
			Help: "Rate catalog cache lookups by result",
		},
		[]string{"result"},
	)

	RateCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_catalog_cache_invalidations_total",
			Help: "Number of rate catalog cache generation bumps",
		},
	)

	CostingCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costing_calculations_total",
			Help: "Costing summaries returned, by caller visibility level",
		},
		[]string{"visibility_level"},
	)

	ComplexityMultiplier = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estimate_complexity_multiplier",
			Help:    "Distribution of derived complexity multipliers",
			Buckets: []float64{1.0, 1.3, 1.5, 1.8, 2.1, 2.5, 3.0},
		},
	)
)
