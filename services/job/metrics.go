package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_created_total",
		Help: "Jobs created, by initial status.",
	}, []string{"status"})

	applicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "job_applications_submitted_total",
		Help: "Job applications accepted for review.",
	})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "job_status_transitions_total",
		Help: "Committed job status changes.",
	}, []string{"from", "to"})

	acceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "job_accept_conflicts_total",
		Help: "Accept calls that lost to a concurrent assignment.",
	})
)
