package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

// Artifact is the serialized form of a trained scaler and isolation forest.
type Artifact struct {
	Version      string   `json:"version"`
	FeatureNames []string `json:"feature_names"`
	Scaler       struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	} `json:"scaler"`
	Model struct {
		Offset     float64 `json:"offset"`
		MaxSamples int     `json:"max_samples"`
		Trees      []Tree  `json:"trees"`
	} `json:"model"`
}

// Loaded holds the capabilities built from an artifact.
type Loaded struct {
	Version string
	Scaler  *StandardScaler
	Forest  *IsolationForest
}

// LoadArtifact reads and validates the artifact at path.
func LoadArtifact(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return ParseArtifact(data)
}

// ParseArtifact validates a JSON artifact and builds its capabilities.
// Feature names must match model.FeatureNames exactly, in order.
func ParseArtifact(data []byte) (*Loaded, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	if a.Version == "" {
		return nil, fmt.Errorf("model artifact has no version")
	}
	if len(a.FeatureNames) != model.FeatureCount {
		return nil, &model.DimensionError{Stage: "artifact", Index: -1, Got: len(a.FeatureNames), Want: model.FeatureCount}
	}
	if !slices.Equal(a.FeatureNames, model.FeatureNames) {
		return nil, fmt.Errorf("%w: feature order %v, want %v", model.ErrDimension, a.FeatureNames, model.FeatureNames)
	}

	scaler, err := NewStandardScaler(a.Scaler.Mean, a.Scaler.Scale)
	if err != nil {
		return nil, fmt.Errorf("invalid scaler: %w", err)
	}
	if scaler.Dimension() != model.FeatureCount {
		return nil, &model.DimensionError{Stage: "artifact", Index: -1, Got: scaler.Dimension(), Want: model.FeatureCount}
	}

	forest, err := NewIsolationForest(a.Model.Trees, model.FeatureCount, a.Model.MaxSamples, a.Model.Offset)
	if err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	return &Loaded{Version: a.Version, Scaler: scaler, Forest: forest}, nil
}
