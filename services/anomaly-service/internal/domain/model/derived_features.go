package model

// FeatureNames is the column order the scaler and model were fitted on.
// Any permutation silently produces wrong scores.
var FeatureNames = []string{
	"CPU_Usage(%)",
	"Memory_Usage(%)",
	"Latency(ms)",
	"CPU_RAM_Interaction",
	"Latency_per_CPU",
}

// FeatureCount is the width of a feature vector.
const FeatureCount = 5

// DerivedFeatures is the model input computed from one TelemetryRecord.
type DerivedFeatures struct {
	CPUUsagePct       float64
	MemoryUsagePct    float64
	LatencyMs         float64
	CPURAMInteraction float64
	LatencyPerCPU     float64
}

// Vector returns the features in FeatureNames order.
func (f DerivedFeatures) Vector() []float64 {
	return []float64{
		f.CPUUsagePct,
		f.MemoryUsagePct,
		f.LatencyMs,
		f.CPURAMInteraction,
		f.LatencyPerCPU,
	}
}
