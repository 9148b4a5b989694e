// Package stream evaluates telemetry batches arriving on a Kafka topic.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	pkgkafka "github.com/infrarisk/sentinel/pkg/kafka"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/presentation/ingest"
)

// BatchEvaluator is satisfied by *usecase.EvaluateBatch.
type BatchEvaluator interface {
	Execute(ctx context.Context, req dto.EvaluateBatchRequest) (dto.BatchResponse, error)
}

// Message is the JSON value of one telemetry topic message.
type Message struct {
	Records []ingest.Row `json:"records"`
}

// TelemetryHandler turns each telemetry message into one stream batch.
type TelemetryHandler struct {
	evaluator BatchEvaluator
	logger    *slog.Logger
}

// NewTelemetryHandler creates a new TelemetryHandler.
func NewTelemetryHandler(evaluator BatchEvaluator, logger *slog.Logger) *TelemetryHandler {
	return &TelemetryHandler{evaluator: evaluator, logger: logger}
}

// Handle implements pkgkafka.Handler. Malformed messages and invalid records
// are logged and dropped; messages with no triggered rows are skipped.
func (h *TelemetryHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var m Message
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed telemetry message",
			slog.String("key", string(msg.Key)),
			slog.String("error", err.Error()),
		)
		return nil
	}

	records, rows := ingest.Triggered(m.Records)
	if len(records) == 0 {
		h.logger.DebugContext(ctx, "no triggered rows in telemetry message",
			slog.Int("received", len(m.Records)),
		)
		return nil
	}

	resp, err := h.evaluator.Execute(ctx, dto.EvaluateBatchRequest{
		Source:  "stream",
		Records: records,
		Rows:    rows,
	})
	if err != nil {
		if errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrDimension) {
			h.logger.WarnContext(ctx, "dropping invalid telemetry batch",
				slog.Int("records", len(records)),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return fmt.Errorf("failed to evaluate telemetry batch: %w", err)
	}

	h.logger.InfoContext(ctx, "telemetry batch evaluated",
		slog.String("batch_id", resp.ID.String()),
		slog.Int("records", resp.RecordCount),
		slog.Int("anomalies", resp.AnomalyCount),
	)
	return nil
}
