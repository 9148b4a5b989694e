package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/infrarisk/sentinel/pkg/events"
)

const (
	// EventTypeBatchEvaluated is emitted for every completed evaluation batch.
	EventTypeBatchEvaluated = "anomaly.batch.evaluated"

	// EventTypeAnomalyAlertRaised is emitted when a batch contains at least one
	// anomaly; it carries the single most severe record.
	EventTypeAnomalyAlertRaised = "anomaly.alert.raised"

	aggregateType = "EvaluationBatch"
)

// BatchEvaluated summarises a completed evaluation batch.
type BatchEvaluated struct {
	events.BaseEvent
	BatchID      uuid.UUID      `json:"batch_id"`
	Source       string         `json:"source"`
	ModelVersion string         `json:"model_version"`
	RecordCount  int            `json:"record_count"`
	AnomalyCount int            `json:"anomaly_count"`
	TierCounts   map[string]int `json:"tier_counts"`
	EvaluatedAt  time.Time      `json:"evaluated_at"`
}

// NewBatchEvaluated builds a BatchEvaluated event.
func NewBatchEvaluated(
	batchID uuid.UUID,
	source, modelVersion string,
	recordCount, anomalyCount int,
	tierCounts map[string]int,
	evaluatedAt time.Time,
) BatchEvaluated {
	return BatchEvaluated{
		BaseEvent:    events.NewBaseEvent(EventTypeBatchEvaluated, batchID, aggregateType),
		BatchID:      batchID,
		Source:       source,
		ModelVersion: modelVersion,
		RecordCount:  recordCount,
		AnomalyCount: anomalyCount,
		TierCounts:   tierCounts,
		EvaluatedAt:  evaluatedAt,
	}
}

// AnomalyAlertRaised announces the highest-severity anomaly of a batch.
type AnomalyAlertRaised struct {
	events.BaseEvent
	BatchID              uuid.UUID `json:"batch_id"`
	Position             int       `json:"position"`
	RiskLevel            string    `json:"risk_level"`
	AnomalyScore         float64   `json:"anomaly_score"`
	IPAddress            string    `json:"ip_address,omitempty"`
	Timestamp            string    `json:"timestamp,omitempty"`
	MitigationSuggestion string    `json:"mitigation_suggestion,omitempty"`
	DetectedAt           time.Time `json:"detected_at"`
}

// NewAnomalyAlertRaised builds an AnomalyAlertRaised event.
func NewAnomalyAlertRaised(
	batchID uuid.UUID,
	position int,
	riskLevel string,
	anomalyScore float64,
	ipAddress, timestamp, mitigation string,
	detectedAt time.Time,
) AnomalyAlertRaised {
	return AnomalyAlertRaised{
		BaseEvent:            events.NewBaseEvent(EventTypeAnomalyAlertRaised, batchID, aggregateType),
		BatchID:              batchID,
		Position:             position,
		RiskLevel:            riskLevel,
		AnomalyScore:         anomalyScore,
		IPAddress:            ipAddress,
		Timestamp:            timestamp,
		MitigationSuggestion: mitigation,
		DetectedAt:           detectedAt,
	}
}
