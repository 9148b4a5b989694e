package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

const namespace = "anomaly"

// Recorder implements port.EvaluationRecorder with Prometheus collectors.
type Recorder struct {
	batches        *prometheus.CounterVec
	records        *prometheus.CounterVec
	riskTiers      *prometheus.CounterVec
	alerts         *prometheus.CounterVec
	scoringSeconds prometheus.Histogram
	batchSize      prometheus.Histogram
}

// NewRecorder registers the service collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_evaluated_total",
			Help:      "Evaluation batches completed, by source",
		}, []string{"source"}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_evaluated_total",
			Help:      "Telemetry records scored, by source",
		}, []string{"source"}),
		riskTiers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_by_risk_level_total",
			Help:      "Scored records by risk level",
		}, []string{"risk_level"}),
		alerts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Most-severe anomalies surfaced, by risk level",
		}, []string{"risk_level"}),
		scoringSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Time spent in transform and model scoring per batch",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		batchSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size_records",
			Help:      "Records per evaluation batch",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// RecordBatch observes one completed batch.
func (r *Recorder) RecordBatch(batch *model.EvaluationBatch, scoringSeconds float64) {
	source := batch.Source().String()
	n := len(batch.Results())

	r.batches.WithLabelValues(source).Inc()
	r.records.WithLabelValues(source).Add(float64(n))
	r.batchSize.Observe(float64(n))
	r.scoringSeconds.Observe(scoringSeconds)

	for level, count := range batch.TierCounts() {
		r.riskTiers.WithLabelValues(level).Add(float64(count))
	}
	if top, ok := batch.MostSevere(); ok {
		r.alerts.WithLabelValues(top.RiskLevel.String()).Inc()
	}
}
