package model

import "math"

// TelemetryRecord is one infrastructure observation. Optional string fields
// are empty when absent.
type TelemetryRecord struct {
	CPUUsagePct          float64
	MemoryUsagePct       float64
	LatencyMs            float64
	IPAddress            string
	Timestamp            string
	MitigationSuggestion string
}

// Validate checks that every numeric field is a finite, non-negative number.
// index is reported back in the error; pass -1 for a standalone record.
func (r TelemetryRecord) Validate(index int) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"cpu_usage_pct", r.CPUUsagePct},
		{"memory_usage_pct", r.MemoryUsagePct},
		{"latency_ms", r.LatencyMs},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Index: index, Field: f.name, Reason: "must be a finite number"}
		}
		if f.value < 0 {
			return &ValidationError{Index: index, Field: f.name, Reason: "must not be negative"}
		}
	}
	return nil
}
