package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsPrefix = "ingestq_scheduler_"
	priorityLabel = "priority"
)

var (
	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: metricsPrefix + "queue_depth",
			Help: "Number of batches waiting to be dispatched",
		},
	)

	submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "submissions_total",
			Help: "Number of ingestions accepted",
		},
		[]string{priorityLabel},
	)

	rejectedSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "rejected_submissions_total",
			Help: "Number of ingestions rejected because the queue was full",
		},
		[]string{priorityLabel},
	)

	dispatchedBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "dispatched_batches_total",
			Help: "Number of batches handed to the downstream processor",
		},
		[]string{priorityLabel},
	)

	batchProcessingSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    metricsPrefix + "batch_processing_seconds",
			Help:    "Time a batch spent in the triggered state",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 7.5, 10, 30},
		},
	)
)
