package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   error
		msg  string
	}{
		{
			name: "validation with index",
			err:  &model.ValidationError{Index: 4, Field: "cpu_usage_pct", Reason: "must not be negative"},
			is:   model.ErrValidation,
			msg:  "validation error: record 4: cpu_usage_pct must not be negative",
		},
		{
			name: "validation without index",
			err:  &model.ValidationError{Index: -1, Reason: "batch contains no records"},
			is:   model.ErrValidation,
			msg:  "validation error: batch contains no records",
		},
		{
			name: "dimension",
			err:  &model.DimensionError{Stage: "score", Index: 0, Got: 4, Want: 5},
			is:   model.ErrDimension,
			msg:  "dimension error: score: vector 0 has 4 columns, want 5",
		},
		{
			name: "scoring",
			err:  &model.ScoringError{Stage: "score", Err: errors.New("boom")},
			is:   model.ErrScoring,
			msg:  "scoring error: score: boom",
		},
	}

	sentinels := []error{model.ErrValidation, model.ErrDimension, model.ErrScoring}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("evaluate: %w", tt.err)
			assert.Equal(t, tt.msg, tt.err.Error())
			for _, s := range sentinels {
				assert.Equal(t, s == tt.is, errors.Is(wrapped, s))
			}
		})
	}
}

func TestTelemetryRecord_Validate(t *testing.T) {
	assert.NoError(t, model.TelemetryRecord{CPUUsagePct: 100, MemoryUsagePct: 100, LatencyMs: 1e6}.Validate(0))
	assert.NoError(t, model.TelemetryRecord{CPUUsagePct: 250}.Validate(0), "no upper bound")
	assert.ErrorIs(t, model.TelemetryRecord{LatencyMs: -0.001}.Validate(7), model.ErrValidation)
}
