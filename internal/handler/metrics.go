package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wanderweave_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	storyboardsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderweave_storyboards_generated_total",
			Help: "Total number of storyboard generation requests by status.",
		},
		[]string{"status"},
	)

	storiesSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderweave_stories_saved_total",
			Help: "Total number of story save attempts by status.",
		},
		[]string{"status"},
	)
)
