package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scq_api_predictions_served_total",
		Help: "Total number of model predictions returned to callers.",
	})
	PredictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scq_api_predictions_failed_total",
		Help: "Total number of prediction attempts that failed.",
	})
	EvaluationsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scq_api_evaluations_stored_total",
		Help: "Total number of evaluations persisted.",
	})
	EvaluationsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scq_api_evaluations_rejected_total",
		Help: "Total number of submissions rejected by validation.",
	})
	PredictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scq_api_prediction_duration_seconds",
		Help:    "Latency of a single model inference.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
)
