package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
)

// ExportColumns is the header row of an exported batch.
var ExportColumns = []string{
	"CPU_Usage(%)",
	"Memory_Usage(%)",
	"Latency(ms)",
	"IP_Address",
	"Timestamp",
	"Mitigation_Suggestion",
	"CPU_RAM_Interaction",
	"Latency_per_CPU",
	"Anomaly_Score",
	"Anomaly_Status",
	"Risk_Level",
}

// ExportBatch is the use case for downloading a stored batch as CSV.
type ExportBatch struct {
	pipeline Pipeline
}

// NewExportBatch creates a new ExportBatch use case.
func NewExportBatch(p Pipeline) *ExportBatch {
	return &ExportBatch{pipeline: p}
}

// Execute writes every result of the batch to w, in input order.
func (uc *ExportBatch) Execute(ctx context.Context, req dto.GetBatchRequest, w io.Writer) (err error) {
	ctx, span := startSpan(ctx, "ExportBatch")
	defer func() { endSpan(ctx, "ExportBatch", span, err) }()

	batch, err := findBatch(ctx, uc.pipeline, req)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range batch.Results() {
		if err := cw.Write(exportRow(r)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func exportRow(r model.EvaluationResult) []string {
	status := "0"
	if r.IsAnomaly {
		status = "1"
	}
	return []string{
		formatFloat(r.Record.CPUUsagePct),
		formatFloat(r.Record.MemoryUsagePct),
		formatFloat(r.Record.LatencyMs),
		r.Record.IPAddress,
		r.Record.Timestamp,
		r.Record.MitigationSuggestion,
		formatFloat(r.Features.CPURAMInteraction),
		formatFloat(r.Features.LatencyPerCPU),
		formatFloat(r.AnomalyScore),
		status,
		r.RiskLevel.String(),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
