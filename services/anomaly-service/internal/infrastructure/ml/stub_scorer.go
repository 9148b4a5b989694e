package ml

import (
	"log/slog"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

// StubScorer implements port.Scorer with a constant score for development
// when no model artifact is configured.
type StubScorer struct {
	logger *slog.Logger
	score  float64
}

// NewStubScorer creates a stub scorer returning score for every vector.
func NewStubScorer(logger *slog.Logger, score float64) *StubScorer {
	return &StubScorer{logger: logger, score: score}
}

// Dimension returns the fixed feature width.
func (s *StubScorer) Dimension() int { return model.FeatureCount }

// Score returns the configured constant for every vector.
func (s *StubScorer) Score(vectors [][]float64) ([]float64, error) {
	s.logger.Debug("stub model scoring requested", slog.Int("vectors", len(vectors)))

	out := make([]float64, len(vectors))
	for i := range out {
		out[i] = s.score
	}
	return out, nil
}
