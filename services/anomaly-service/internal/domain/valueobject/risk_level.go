package valueobject

import "fmt"

// RiskLevel is an immutable value object naming the risk tier of a scored
// telemetry record.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow      = RiskLevel{value: "Low"}
	RiskLevelModerate = RiskLevel{value: "Moderate"}
	RiskLevelHigh     = RiskLevel{value: "High"}
)

// Tier breakpoints on the anomaly score. Intervals are half-open:
// (-inf, -0.5) High, [-0.5, 0) Moderate, [0, +inf) Low.
const (
	HighRiskBelow     = -0.5
	ModerateRiskBelow = 0.0
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "Low":
		return RiskLevelLow, nil
	case "Moderate":
		return RiskLevelModerate, nil
	case "High":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %q", s)
	}
}

// RiskLevelFromScore classifies an anomaly score. The tier depends on the
// score alone, so a non-anomalous record still receives a tier (always Low).
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score < HighRiskBelow:
		return RiskLevelHigh
	case score < ModerateRiskBelow:
		return RiskLevelModerate
	default:
		return RiskLevelLow
	}
}

// Rank orders tiers by severity: High=3, Moderate=2, Low=1. The zero value ranks 0.
func (r RiskLevel) Rank() int {
	switch r.value {
	case "High":
		return 3
	case "Moderate":
		return 2
	case "Low":
		return 1
	default:
		return 0
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
