package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

// RecordInput is one telemetry row as received from a transport. Numeric
// fields are pointers so that an absent value can be told apart from zero.
type RecordInput struct {
	CPUUsagePct          *float64 `json:"cpu_usage_pct"`
	MemoryUsagePct       *float64 `json:"memory_usage_pct"`
	LatencyMs            *float64 `json:"latency_ms"`
	IPAddress            string   `json:"ip_address,omitempty"`
	Timestamp            string   `json:"timestamp,omitempty"`
	MitigationSuggestion string   `json:"mitigation_suggestion,omitempty"`
}

// ToModel converts the row into a TelemetryRecord. A missing numeric field is
// reported as a ValidationError at index.
func (r RecordInput) ToModel(index int) (model.TelemetryRecord, error) {
	required := []struct {
		name  string
		value *float64
	}{
		{"cpu_usage_pct", r.CPUUsagePct},
		{"memory_usage_pct", r.MemoryUsagePct},
		{"latency_ms", r.LatencyMs},
	}
	for _, f := range required {
		if f.value == nil {
			return model.TelemetryRecord{}, &model.ValidationError{Index: index, Field: f.name, Reason: "is required"}
		}
	}

	return model.TelemetryRecord{
		CPUUsagePct:          *r.CPUUsagePct,
		MemoryUsagePct:       *r.MemoryUsagePct,
		LatencyMs:            *r.LatencyMs,
		IPAddress:            r.IPAddress,
		Timestamp:            r.Timestamp,
		MitigationSuggestion: r.MitigationSuggestion,
	}, nil
}

// EvaluateBatchRequest is the input DTO for the EvaluateBatch use case.
// Source is "upload" or "stream"; empty means "upload".
// Rows, when set, gives each record's position in the caller's original
// input so validation errors name the row the caller sent.
type EvaluateBatchRequest struct {
	Source  string        `json:"source,omitempty"`
	Records []RecordInput `json:"records"`
	Rows    []int         `json:"-"`
}

// Row maps a position in Records to the caller's row number.
func (r EvaluateBatchRequest) Row(i int) int {
	if i >= 0 && i < len(r.Rows) {
		return r.Rows[i]
	}
	return i
}

// EvaluateReadingRequest is the input DTO for the EvaluateReading use case.
type EvaluateReadingRequest struct {
	Record RecordInput `json:"record"`
}

// GetBatchRequest is the input DTO for retrieving or exporting a batch.
type GetBatchRequest struct {
	BatchID uuid.UUID `json:"batch_id"`
}

// ResultResponse is one evaluated record.
type ResultResponse struct {
	IPAddress            string  `json:"ip_address,omitempty"`
	Timestamp            string  `json:"timestamp,omitempty"`
	MitigationSuggestion string  `json:"mitigation_suggestion,omitempty"`
	RiskLevel            string  `json:"risk_level"`
	CPUUsagePct          float64 `json:"cpu_usage_pct"`
	MemoryUsagePct       float64 `json:"memory_usage_pct"`
	LatencyMs            float64 `json:"latency_ms"`
	CPURAMInteraction    float64 `json:"cpu_ram_interaction"`
	LatencyPerCPU        float64 `json:"latency_per_cpu"`
	AnomalyScore         float64 `json:"anomaly_score"`
	Position             int     `json:"position"`
	IsAnomaly            bool    `json:"is_anomaly"`
}

// AlertResponse describes the single record surfaced for a batch.
type AlertResponse struct {
	RiskLevel            string  `json:"risk_level"`
	IPAddress            string  `json:"ip_address,omitempty"`
	Timestamp            string  `json:"timestamp,omitempty"`
	MitigationSuggestion string  `json:"mitigation_suggestion,omitempty"`
	AnomalyScore         float64 `json:"anomaly_score"`
	Position             int     `json:"position"`
}

// BatchResponse is the output DTO of every evaluation use case.
type BatchResponse struct {
	EvaluatedAt  time.Time        `json:"evaluated_at"`
	CreatedAt    time.Time        `json:"created_at"`
	TierCounts   map[string]int   `json:"tier_counts"`
	Alert        *AlertResponse   `json:"alert,omitempty"`
	Results      []ResultResponse `json:"results"`
	Anomalies    []ResultResponse `json:"anomalies"`
	Source       string           `json:"source"`
	ModelVersion string           `json:"model_version"`
	RecordCount  int              `json:"record_count"`
	AnomalyCount int              `json:"anomaly_count"`
	ID           uuid.UUID        `json:"id"`
}

// FromModel maps an evaluated batch to the response DTO.
func FromModel(b *model.EvaluationBatch) BatchResponse {
	results := b.Results()
	resp := BatchResponse{
		ID:           b.ID(),
		Source:       b.Source().String(),
		ModelVersion: b.ModelVersion(),
		RecordCount:  len(results),
		AnomalyCount: b.AnomalyCount(),
		TierCounts:   b.TierCounts(),
		Results:      make([]ResultResponse, len(results)),
		Anomalies:    make([]ResultResponse, 0, b.AnomalyCount()),
		EvaluatedAt:  b.EvaluatedAt(),
		CreatedAt:    b.CreatedAt(),
	}

	for i, r := range results {
		rr := fromResult(i, r)
		resp.Results[i] = rr
		if r.IsAnomaly {
			resp.Anomalies = append(resp.Anomalies, rr)
		}
	}

	if top, ok := b.MostSevere(); ok {
		resp.Alert = &AlertResponse{
			Position:             b.MostSevereIndex(),
			RiskLevel:            top.RiskLevel.String(),
			AnomalyScore:         top.AnomalyScore,
			IPAddress:            top.Record.IPAddress,
			Timestamp:            top.Record.Timestamp,
			MitigationSuggestion: top.Record.MitigationSuggestion,
		}
	}

	return resp
}

func fromResult(position int, r model.EvaluationResult) ResultResponse {
	return ResultResponse{
		Position:             position,
		CPUUsagePct:          r.Record.CPUUsagePct,
		MemoryUsagePct:       r.Record.MemoryUsagePct,
		LatencyMs:            r.Record.LatencyMs,
		IPAddress:            r.Record.IPAddress,
		Timestamp:            r.Record.Timestamp,
		MitigationSuggestion: r.Record.MitigationSuggestion,
		CPURAMInteraction:    r.Features.CPURAMInteraction,
		LatencyPerCPU:        r.Features.LatencyPerCPU,
		AnomalyScore:         r.AnomalyScore,
		IsAnomaly:            r.IsAnomaly,
		RiskLevel:            r.RiskLevel.String(),
	}
}
