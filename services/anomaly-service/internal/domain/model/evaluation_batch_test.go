package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/event"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"
)

func newBatch(t *testing.T) *model.EvaluationBatch {
	t.Helper()
	b, err := model.NewEvaluationBatch(valueobject.SourceUpload, "iforest-v1")
	require.NoError(t, err)
	return b
}

func resultWithScore(ip string, score float64) model.EvaluationResult {
	return model.NewEvaluationResult(model.TelemetryRecord{IPAddress: ip}, model.DerivedFeatures{}, score)
}

func TestNewEvaluationBatch_Valid(t *testing.T) {
	b := newBatch(t)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, valueobject.SourceUpload, b.Source())
	assert.Equal(t, "iforest-v1", b.ModelVersion())
	assert.Equal(t, model.NoAnomaly, b.MostSevereIndex())
	assert.True(t, b.EvaluatedAt().IsZero())
	assert.False(t, b.CreatedAt().IsZero())
	assert.Empty(t, b.DomainEvents())
}

func TestNewEvaluationBatch_Validation(t *testing.T) {
	tests := []struct {
		name    string
		source  valueobject.BatchSource
		version string
		wantErr string
	}{
		{"missing source", valueobject.BatchSource{}, "v1", "batch source is required"},
		{"missing version", valueobject.SourceManual, "", "model version is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewEvaluationBatch(tt.source, tt.version)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEvaluationBatch_Complete_WithAnomaly(t *testing.T) {
	b := newBatch(t)
	results := []model.EvaluationResult{
		resultWithScore("10.0.0.1", 0.2),
		resultWithScore("10.0.0.2", -0.7),
		resultWithScore("10.0.0.3", -0.1),
	}

	require.NoError(t, b.Complete(results, 1))

	assert.False(t, b.EvaluatedAt().IsZero())
	assert.Equal(t, 2, b.AnomalyCount())
	assert.Len(t, b.Anomalies(), 2)
	assert.Equal(t, map[string]int{"High": 1, "Moderate": 1, "Low": 1}, b.TierCounts())

	top, ok := b.MostSevere()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2", top.Record.IPAddress)

	evts := b.DomainEvents()
	require.Len(t, evts, 2)
	assert.Equal(t, event.EventTypeBatchEvaluated, evts[0].EventType())
	assert.Equal(t, event.EventTypeAnomalyAlertRaised, evts[1].EventType())
	assert.Equal(t, b.ID(), evts[0].AggregateID())

	alert, ok := evts[1].(event.AnomalyAlertRaised)
	require.True(t, ok)
	assert.Equal(t, 1, alert.Position)
	assert.Equal(t, "High", alert.RiskLevel)
	assert.Equal(t, -0.7, alert.AnomalyScore)

	assert.Empty(t, b.DomainEvents(), "events are cleared after retrieval")
}

func TestEvaluationBatch_Complete_NoAnomaly(t *testing.T) {
	b := newBatch(t)

	require.NoError(t, b.Complete([]model.EvaluationResult{resultWithScore("", 0.1)}, model.NoAnomaly))

	_, ok := b.MostSevere()
	assert.False(t, ok)
	evts := b.DomainEvents()
	require.Len(t, evts, 1)
	summary, ok := evts[0].(event.BatchEvaluated)
	require.True(t, ok)
	assert.Equal(t, 1, summary.RecordCount)
	assert.Zero(t, summary.AnomalyCount)
}

func TestEvaluationBatch_Complete_Errors(t *testing.T) {
	t.Run("empty results", func(t *testing.T) {
		err := newBatch(t).Complete(nil, model.NoAnomaly)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("index out of range", func(t *testing.T) {
		err := newBatch(t).Complete([]model.EvaluationResult{resultWithScore("", -1)}, 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("index not anomalous", func(t *testing.T) {
		err := newBatch(t).Complete([]model.EvaluationResult{resultWithScore("", 0.5)}, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not anomalous")
	})

	t.Run("already evaluated", func(t *testing.T) {
		b := newBatch(t)
		require.NoError(t, b.Complete([]model.EvaluationResult{resultWithScore("", 0.5)}, model.NoAnomaly))
		err := b.Complete([]model.EvaluationResult{resultWithScore("", 0.5)}, model.NoAnomaly)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already evaluated")
	})
}

func TestEvaluationBatch_CompleteCopiesResults(t *testing.T) {
	b := newBatch(t)
	results := []model.EvaluationResult{resultWithScore("a", 0.1)}
	require.NoError(t, b.Complete(results, model.NoAnomaly))

	results[0].Record.IPAddress = "mutated"
	assert.Equal(t, "a", b.Results()[0].Record.IPAddress)
}

func TestReconstructBatch(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()
	results := []model.EvaluationResult{resultWithScore("x", -0.3)}

	b := model.ReconstructBatch(id, valueobject.SourceStream, "v2", results, 0, now, now.Add(-time.Second))

	assert.Equal(t, id, b.ID())
	assert.Equal(t, valueobject.SourceStream, b.Source())
	assert.Equal(t, "v2", b.ModelVersion())
	assert.Equal(t, now, b.EvaluatedAt())
	top, ok := b.MostSevere()
	require.True(t, ok)
	assert.Equal(t, "x", top.Record.IPAddress)
	assert.Empty(t, b.DomainEvents())
}
