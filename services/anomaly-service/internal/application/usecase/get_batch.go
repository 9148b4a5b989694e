package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

// ErrBatchNotFound is returned when no batch exists for the requested id.
var ErrBatchNotFound = errors.New("batch not found")

// GetBatch is the use case for retrieving a stored evaluation batch.
type GetBatch struct {
	pipeline Pipeline
}

// NewGetBatch creates a new GetBatch use case.
func NewGetBatch(p Pipeline) *GetBatch {
	return &GetBatch{pipeline: p}
}

// Execute retrieves an evaluation batch by ID.
func (uc *GetBatch) Execute(ctx context.Context, req dto.GetBatchRequest) (resp dto.BatchResponse, err error) {
	ctx, span := startSpan(ctx, "GetBatch")
	defer func() { endSpan(ctx, "GetBatch", span, err) }()

	batch, err := findBatch(ctx, uc.pipeline, req)
	if err != nil {
		return dto.BatchResponse{}, err
	}
	return dto.FromModel(batch), nil
}

func findBatch(ctx context.Context, p Pipeline, req dto.GetBatchRequest) (*model.EvaluationBatch, error) {
	batch, err := p.Repo.FindByID(ctx, req.BatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, req.BatchID)
	}
	return batch, nil
}
