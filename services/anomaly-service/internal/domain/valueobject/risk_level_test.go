package valueobject_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"
)

func TestRiskLevel_FromScore(t *testing.T) {
	tests := []struct {
		name     string
		expected valueobject.RiskLevel
		score    float64
	}{
		{name: "very negative is High", expected: valueobject.RiskLevelHigh, score: -3},
		{name: "-0.7 is High", expected: valueobject.RiskLevelHigh, score: -0.7},
		{name: "just below -0.5 is High", expected: valueobject.RiskLevelHigh, score: math.Nextafter(-0.5, -1)},
		{name: "-0.5 is Moderate", expected: valueobject.RiskLevelModerate, score: -0.5},
		{name: "-0.2 is Moderate", expected: valueobject.RiskLevelModerate, score: -0.2},
		{name: "just below 0 is Moderate", expected: valueobject.RiskLevelModerate, score: math.Nextafter(0, -1)},
		{name: "0 is Low", expected: valueobject.RiskLevelLow, score: 0},
		{name: "negative zero is Low", expected: valueobject.RiskLevelLow, score: math.Copysign(0, -1)},
		{name: "0.3 is Low", expected: valueobject.RiskLevelLow, score: 0.3},
		{name: "large positive is Low", expected: valueobject.RiskLevelLow, score: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := valueobject.RiskLevelFromScore(tt.score)
			assert.True(t, tt.expected.Equal(result),
				"expected %s for score %v, got %s", tt.expected, tt.score, result)
		})
	}
}

func TestRiskLevel_TiersPartitionTheLine(t *testing.T) {
	for s := -2.0; s <= 2.0; s += 0.125 {
		level := valueobject.RiskLevelFromScore(s)
		high := s < -0.5
		moderate := s >= -0.5 && s < 0
		low := s >= 0

		assert.Equal(t, high, level.Equal(valueobject.RiskLevelHigh), "score %v", s)
		assert.Equal(t, moderate, level.Equal(valueobject.RiskLevelModerate), "score %v", s)
		assert.Equal(t, low, level.Equal(valueobject.RiskLevelLow), "score %v", s)
	}
}

func TestRiskLevel_Rank(t *testing.T) {
	assert.Equal(t, 3, valueobject.RiskLevelHigh.Rank())
	assert.Equal(t, 2, valueobject.RiskLevelModerate.Rank())
	assert.Equal(t, 1, valueobject.RiskLevelLow.Rank())
	assert.Equal(t, 0, valueobject.RiskLevel{}.Rank())
}

func TestRiskLevel_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskLevel
		wantErr  bool
	}{
		{"High", valueobject.RiskLevelHigh, false},
		{"Moderate", valueobject.RiskLevelModerate, false},
		{"Low", valueobject.RiskLevelLow, false},
		{"HIGH", valueobject.RiskLevel{}, true},
		{"Critical", valueobject.RiskLevel{}, true},
		{"", valueobject.RiskLevel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskLevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result))
			assert.Equal(t, tt.input, result.String())
		})
	}
}

func TestRiskLevel_IsZero(t *testing.T) {
	var zero valueobject.RiskLevel
	assert.True(t, zero.IsZero())
	assert.False(t, valueobject.RiskLevelLow.IsZero())
}

func TestBatchSource_FromString(t *testing.T) {
	for _, s := range []valueobject.BatchSource{valueobject.SourceUpload, valueobject.SourceManual, valueobject.SourceStream} {
		got, err := valueobject.BatchSourceFromString(s.String())
		require.NoError(t, err)
		assert.True(t, s.Equal(got))
	}

	_, err := valueobject.BatchSourceFromString("csv")
	assert.Error(t, err)
}
