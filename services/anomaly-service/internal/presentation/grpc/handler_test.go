package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/infrarisk/sentinel/pkg/events"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/usecase"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/service"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/presentation/ingest"
)

// --- Mock implementations ---

type memoryRepo struct {
	batches map[uuid.UUID]*model.EvaluationBatch
	err     error
}

func (m *memoryRepo) Save(_ context.Context, b *model.EvaluationBatch) error {
	if m.err != nil {
		return m.err
	}
	m.batches[b.ID()] = b
	return nil
}

func (m *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.EvaluationBatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.batches[id], nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...events.DomainEvent) error { return nil }

// scoreByCPU scores cpu >= 90 as High, cpu >= 70 as Moderate, otherwise normal.
type scoreByCPU struct{ err error }

func (s scoreByCPU) Score(vectors [][]float64) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		switch {
		case v[0] >= 90:
			out[i] = -0.8
		case v[0] >= 70:
			out[i] = -0.2
		default:
			out[i] = 0.3
		}
	}
	return out, nil
}

// --- Helpers ---

func newTestHandler(repo *memoryRepo, scorer scoreByCPU) *AnomalyServiceHandler {
	p := usecase.Pipeline{
		Repo:         repo,
		Publisher:    nopPublisher{},
		Deriver:      service.NewFeatureDeriver(),
		Evaluator:    service.NewRiskEvaluator(scorer, nil),
		ModelVersion: "test",
	}
	return NewAnomalyServiceHandler(
		usecase.NewEvaluateBatch(p),
		usecase.NewEvaluateReading(p),
		usecase.NewGetBatch(p),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func newRepo() *memoryRepo {
	return &memoryRepo{batches: make(map[uuid.UUID]*model.EvaluationBatch)}
}

func f(v float64) *float64 { return &v }

func flag(v int) *int { return &v }

func row(cpu float64, ip string, triggered *int) ingest.Row {
	return ingest.Row{
		RecordInput:    dto.RecordInput{CPUUsagePct: f(cpu), MemoryUsagePct: f(50), LatencyMs: f(100), IPAddress: ip},
		AlertTriggered: triggered,
	}
}

// --- Tests ---

func TestEvaluateBatch(t *testing.T) {
	h := newTestHandler(newRepo(), scoreByCPU{})

	resp, err := h.EvaluateBatch(context.Background(), &EvaluateBatchRequest{
		Records: []ingest.Row{
			row(75, "10.0.0.1", flag(1)),
			row(95, "10.0.0.2", flag(0)),
			row(92, "10.0.0.3", flag(1)),
			row(10, "10.0.0.4", nil),
		},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Batch)
	assert.Equal(t, 3, resp.Batch.RecordCount, "row without alert_triggered=1 is dropped")
	require.NotNil(t, resp.Batch.Alert)
	assert.Equal(t, "High", resp.Batch.Alert.RiskLevel)
	assert.Equal(t, "10.0.0.3", resp.Batch.Alert.IPAddress)
}

func TestEvaluateBatch_Errors(t *testing.T) {
	tests := []struct {
		name string
		repo *memoryRepo
		scr  scoreByCPU
		req  *EvaluateBatchRequest
		code codes.Code
	}{
		{"nil request", newRepo(), scoreByCPU{}, nil, codes.InvalidArgument},
		{"all rows filtered", newRepo(), scoreByCPU{}, &EvaluateBatchRequest{Records: []ingest.Row{row(1, "", flag(0))}}, codes.InvalidArgument},
		{"negative value", newRepo(), scoreByCPU{}, &EvaluateBatchRequest{Records: []ingest.Row{row(-1, "", nil)}}, codes.InvalidArgument},
		{"scorer failure", newRepo(), scoreByCPU{err: errors.New("model unavailable")}, &EvaluateBatchRequest{Records: []ingest.Row{row(1, "", nil)}}, codes.FailedPrecondition},
		{"repository failure", &memoryRepo{err: errors.New("db down")}, scoreByCPU{}, &EvaluateBatchRequest{Records: []ingest.Row{row(1, "", nil)}}, codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestHandler(tt.repo, tt.scr).EvaluateBatch(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestEvaluateReading(t *testing.T) {
	h := newTestHandler(newRepo(), scoreByCPU{})

	resp, err := h.EvaluateReading(context.Background(), &EvaluateReadingRequest{
		Record: &dto.RecordInput{CPUUsagePct: f(80), MemoryUsagePct: f(60), LatencyMs: f(200), IPAddress: "172.16.0.5"},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Batch.Alert)
	assert.Equal(t, "Moderate", resp.Batch.Alert.RiskLevel)
	assert.Equal(t, usecase.DefaultMitigation, resp.Batch.Alert.MitigationSuggestion)

	_, err = h.EvaluateReading(context.Background(), &EvaluateReadingRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetBatch(t *testing.T) {
	repo := newRepo()
	h := newTestHandler(repo, scoreByCPU{})

	created, err := h.EvaluateReading(context.Background(), &EvaluateReadingRequest{
		Record: &dto.RecordInput{CPUUsagePct: f(10), MemoryUsagePct: f(10), LatencyMs: f(10)},
	})
	require.NoError(t, err)

	got, err := h.GetBatch(context.Background(), &GetBatchRequest{ID: created.Batch.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.Batch.ID, got.Batch.ID)

	_, err = h.GetBatch(context.Background(), &GetBatchRequest{ID: "not-a-uuid"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.GetBatch(context.Background(), &GetBatchRequest{ID: uuid.NewString()})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
