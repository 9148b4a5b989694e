package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"
)

// EvaluateBatch is the use case for scoring a set of telemetry rows from a
// file upload or a stream message.
type EvaluateBatch struct {
	pipeline Pipeline
}

// NewEvaluateBatch creates a new EvaluateBatch use case.
func NewEvaluateBatch(p Pipeline) *EvaluateBatch {
	return &EvaluateBatch{pipeline: p}
}

// Execute evaluates every record of the request and returns the stored batch.
func (uc *EvaluateBatch) Execute(ctx context.Context, req dto.EvaluateBatchRequest) (resp dto.BatchResponse, err error) {
	ctx, span := startSpan(ctx, "EvaluateBatch",
		attribute.Int("records", len(req.Records)),
		attribute.String("source", req.Source),
	)
	defer func() { endSpan(ctx, "EvaluateBatch", span, err) }()

	source := valueobject.SourceUpload
	if req.Source != "" {
		source, err = valueobject.BatchSourceFromString(req.Source)
		if err != nil {
			return dto.BatchResponse{}, &model.ValidationError{Index: -1, Field: "source", Reason: err.Error()}
		}
		if source.Equal(valueobject.SourceManual) {
			return dto.BatchResponse{}, &model.ValidationError{Index: -1, Field: "source", Reason: "manual readings use EvaluateReading"}
		}
	}

	records := make([]model.TelemetryRecord, len(req.Records))
	for i, in := range req.Records {
		records[i], err = in.ToModel(req.Row(i))
		if err != nil {
			return dto.BatchResponse{}, fmt.Errorf("invalid record: %w", err)
		}
	}

	batch, err := uc.pipeline.run(ctx, source, records)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) && ve.Index >= 0 {
			ve.Index = req.Row(ve.Index)
		}
		return dto.BatchResponse{}, err
	}

	span.SetAttributes(attribute.Int("anomalies", batch.AnomalyCount()))
	return dto.FromModel(batch), nil
}
