package model

import "github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"

// EvaluationResult is a TelemetryRecord annotated with its model verdict.
// IsAnomaly and RiskLevel are both derived from AnomalyScore but are
// independent fields: RiskLevel is set for every record.
type EvaluationResult struct {
	Record       TelemetryRecord
	Features     DerivedFeatures
	AnomalyScore float64
	IsAnomaly    bool
	RiskLevel    valueobject.RiskLevel
}

// NewEvaluationResult classifies score for record.
func NewEvaluationResult(record TelemetryRecord, features DerivedFeatures, score float64) EvaluationResult {
	return EvaluationResult{
		Record:       record,
		Features:     features,
		AnomalyScore: score,
		IsAnomaly:    score < 0,
		RiskLevel:    valueobject.RiskLevelFromScore(score),
	}
}
