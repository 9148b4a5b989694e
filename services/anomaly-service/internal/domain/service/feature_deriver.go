package service

import (
	"math"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

// FeatureDeriver turns telemetry records into model features.
type FeatureDeriver struct{}

// NewFeatureDeriver creates a new FeatureDeriver instance.
func NewFeatureDeriver() *FeatureDeriver {
	return &FeatureDeriver{}
}

// Derive validates one record and computes its features.
func (d *FeatureDeriver) Derive(record model.TelemetryRecord) (model.DerivedFeatures, error) {
	return d.derive(record, -1)
}

// DeriveBatch derives features for every record, preserving order. The first
// invalid record fails the whole batch.
func (d *FeatureDeriver) DeriveBatch(records []model.TelemetryRecord) ([]model.DerivedFeatures, error) {
	out := make([]model.DerivedFeatures, len(records))
	for i, r := range records {
		f, err := d.derive(r, i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func (d *FeatureDeriver) derive(r model.TelemetryRecord, index int) (model.DerivedFeatures, error) {
	if err := r.Validate(index); err != nil {
		return model.DerivedFeatures{}, err
	}

	f := model.DerivedFeatures{
		CPUUsagePct:       r.CPUUsagePct,
		MemoryUsagePct:    r.MemoryUsagePct,
		LatencyMs:         r.LatencyMs,
		CPURAMInteraction: r.CPUUsagePct * r.MemoryUsagePct,
		// cpu >= 0 after validation, so the denominator is at least 1.
		LatencyPerCPU: r.LatencyMs / (r.CPUUsagePct + 1),
	}

	// Finite inputs can still overflow the product.
	if math.IsInf(f.CPURAMInteraction, 0) {
		return model.DerivedFeatures{}, &model.ValidationError{Index: index, Field: "cpu_ram_interaction", Reason: "overflows"}
	}
	if math.IsInf(f.LatencyPerCPU, 0) {
		return model.DerivedFeatures{}, &model.ValidationError{Index: index, Field: "latency_per_cpu", Reason: "overflows"}
	}
	return f, nil
}
