package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendationsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arxrec_recommendations_served_total",
		Help: "Number of recommendation lists generated.",
	})

	recommendationCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arxrec_recommendation_cache_hits_total",
		Help: "Number of recommendation requests answered from cache.",
	})

	feedbackApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arxrec_feedback_applied_total",
		Help: "Number of feedback events applied to the weight store.",
	})

	blendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arxrec_blend_duration_seconds",
		Help:    "Time spent assembling, blending and explaining one request.",
		Buckets: prometheus.DefBuckets,
	})
)
