package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/infrarisk/sentinel/pkg/events"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

// BatchRepository defines the persistence port for evaluation batches.
type BatchRepository interface {
	// Save persists a completed batch together with its results.
	Save(ctx context.Context, batch *model.EvaluationBatch) error

	// FindByID returns the batch, or nil when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.EvaluationBatch, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// EvaluationRecorder receives operational measurements of evaluated batches.
type EvaluationRecorder interface {
	RecordBatch(batch *model.EvaluationBatch, scoringSeconds float64)
}
