package usecase_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/infrarisk/sentinel/pkg/events"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/usecase"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/service"
)

// --- Mock implementations ---

type mockBatchRepository struct {
	saved        map[uuid.UUID]*model.EvaluationBatch
	saveFunc     func(ctx context.Context, batch *model.EvaluationBatch) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.EvaluationBatch, error)
}

func newMockRepo() *mockBatchRepository {
	return &mockBatchRepository{saved: make(map[uuid.UUID]*model.EvaluationBatch)}
}

func (m *mockBatchRepository) Save(ctx context.Context, batch *model.EvaluationBatch) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, batch)
	}
	m.saved[batch.ID()] = batch
	return nil
}

func (m *mockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EvaluationBatch, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return m.saved[id], nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockRecorder struct {
	batches int
}

func (m *mockRecorder) RecordBatch(*model.EvaluationBatch, float64) { m.batches++ }

// scriptedScorer returns scores in order, one per vector.
type scriptedScorer struct {
	scores []float64
	err    error
}

func (s *scriptedScorer) Score(vectors [][]float64) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.scores) < len(vectors) {
		return nil, fmt.Errorf("script has %d scores for %d vectors", len(s.scores), len(vectors))
	}
	return s.scores[:len(vectors)], nil
}

type fixture struct {
	repo      *mockBatchRepository
	publisher *mockEventPublisher
	recorder  *mockRecorder
	pipeline  usecase.Pipeline
}

func newFixture(scores ...float64) *fixture {
	f := &fixture{
		repo:      newMockRepo(),
		publisher: &mockEventPublisher{},
		recorder:  &mockRecorder{},
	}
	f.pipeline = usecase.Pipeline{
		Repo:         f.repo,
		Publisher:    f.publisher,
		Recorder:     f.recorder,
		Deriver:      service.NewFeatureDeriver(),
		Evaluator:    service.NewRiskEvaluator(&scriptedScorer{scores: scores}, nil),
		ModelVersion: "test-model",
	}
	return f
}

func ptr(v float64) *float64 { return &v }
