package service

import (
	"fmt"
	"math"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/port"
)

// RiskEvaluator scores derived features with the injected model and
// classifies each score into a risk tier.
type RiskEvaluator struct {
	scorer    port.Scorer
	transform port.Transformer
}

// NewRiskEvaluator creates a RiskEvaluator. transform may be nil when the
// model consumes raw features.
func NewRiskEvaluator(scorer port.Scorer, transform port.Transformer) *RiskEvaluator {
	return &RiskEvaluator{scorer: scorer, transform: transform}
}

// Evaluate scores the batch with a single scorer call. features[i] must be
// derived from records[i]; the results keep that order.
func (e *RiskEvaluator) Evaluate(records []model.TelemetryRecord, features []model.DerivedFeatures) ([]model.EvaluationResult, error) {
	if len(records) != len(features) {
		return nil, &model.DimensionError{Stage: "input", Index: -1, Got: len(features), Want: len(records)}
	}
	if len(features) == 0 {
		return []model.EvaluationResult{}, nil
	}

	vectors := make([][]float64, len(features))
	for i, f := range features {
		vectors[i] = f.Vector()
	}

	if e.transform != nil {
		if err := checkWidth("transform", e.transform, vectors); err != nil {
			return nil, err
		}
		scaled, err := e.transform.Transform(vectors)
		if err != nil {
			return nil, &model.ScoringError{Stage: "transform", Err: err}
		}
		if len(scaled) != len(vectors) {
			return nil, &model.ScoringError{
				Stage: "transform",
				Err:   fmt.Errorf("returned %d vectors for %d inputs", len(scaled), len(vectors)),
			}
		}
		vectors = scaled
	}

	if err := checkWidth("score", e.scorer, vectors); err != nil {
		return nil, err
	}

	scores, err := e.scorer.Score(vectors)
	if err != nil {
		return nil, &model.ScoringError{Stage: "score", Err: err}
	}
	if len(scores) != len(vectors) {
		return nil, &model.ScoringError{
			Stage: "score",
			Err:   fmt.Errorf("returned %d scores for %d vectors", len(scores), len(vectors)),
		}
	}

	results := make([]model.EvaluationResult, len(scores))
	for i, s := range scores {
		if math.IsNaN(s) {
			return nil, &model.ScoringError{Stage: "score", Err: fmt.Errorf("score %d is NaN", i)}
		}
		results[i] = model.NewEvaluationResult(records[i], features[i], s)
	}
	return results, nil
}

// checkWidth compares every vector against the capability's fitted width,
// when the capability reports one.
func checkWidth(stage string, capability any, vectors [][]float64) error {
	d, ok := capability.(port.Dimensioned)
	if !ok {
		return nil
	}
	want := d.Dimension()
	for i, v := range vectors {
		if len(v) != want {
			return &model.DimensionError{Stage: stage, Index: i, Got: len(v), Want: want}
		}
	}
	return nil
}

// MostSevereIndex returns the position of the anomalous result with the
// highest risk rank, or model.NoAnomaly. Ties go to the earliest position;
// scores within a tier are not compared.
func MostSevereIndex(results []model.EvaluationResult) int {
	best, bestRank := model.NoAnomaly, 0
	for i, r := range results {
		if !r.IsAnomaly {
			continue
		}
		if rank := r.RiskLevel.Rank(); rank > bestRank {
			best, bestRank = i, rank
		}
	}
	return best
}

// SelectMostSevere returns the anomalous result to alert on, if any.
func SelectMostSevere(results []model.EvaluationResult) (model.EvaluationResult, bool) {
	i := MostSevereIndex(results)
	if i == model.NoAnomaly {
		return model.EvaluationResult{}, false
	}
	return results[i], true
}
