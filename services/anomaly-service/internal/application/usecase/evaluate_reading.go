package usecase

import (
	"context"
	"fmt"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"
)

// DefaultMitigation is the alert hint for a manual reading that carries none.
const DefaultMitigation = "Consider optimizing your resource allocation."

// EvaluateReading is the use case for scoring one manually entered reading.
type EvaluateReading struct {
	pipeline Pipeline
}

// NewEvaluateReading creates a new EvaluateReading use case.
func NewEvaluateReading(p Pipeline) *EvaluateReading {
	return &EvaluateReading{pipeline: p}
}

// Execute evaluates the reading as a batch of one.
func (uc *EvaluateReading) Execute(ctx context.Context, req dto.EvaluateReadingRequest) (resp dto.BatchResponse, err error) {
	ctx, span := startSpan(ctx, "EvaluateReading")
	defer func() { endSpan(ctx, "EvaluateReading", span, err) }()

	record, err := req.Record.ToModel(-1)
	if err != nil {
		return dto.BatchResponse{}, fmt.Errorf("invalid reading: %w", err)
	}

	batch, err := uc.pipeline.run(ctx, valueobject.SourceManual, []model.TelemetryRecord{record})
	if err != nil {
		return dto.BatchResponse{}, err
	}

	resp = dto.FromModel(batch)
	if resp.Alert != nil && resp.Alert.MitigationSuggestion == "" {
		resp.Alert.MitigationSuggestion = DefaultMitigation
	}
	return resp, nil
}
