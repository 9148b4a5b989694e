package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/port"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/service"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"
)

const instrumentationName = "github.com/infrarisk/sentinel/services/anomaly-service/usecase"

var (
	tracer = otel.Tracer(instrumentationName)

	// requests counts use case executions by name and outcome. Instruments
	// from the global provider start delegating once main installs one.
	requests, _ = otel.Meter(instrumentationName).Int64Counter(
		"anomaly.usecase.requests",
		metric.WithDescription("Use case executions by outcome"),
	)
)

// Pipeline holds the collaborators shared by the evaluation use cases.
type Pipeline struct {
	Repo         port.BatchRepository
	Publisher    port.EventPublisher
	Recorder     port.EvaluationRecorder // optional
	Deriver      *service.FeatureDeriver
	Evaluator    *service.RiskEvaluator
	ModelVersion string
}

// run derives, scores, persists and publishes one batch.
func (p Pipeline) run(ctx context.Context, source valueobject.BatchSource, records []model.TelemetryRecord) (*model.EvaluationBatch, error) {
	if len(records) == 0 {
		return nil, &model.ValidationError{Index: -1, Reason: "batch contains no records"}
	}

	features, err := p.Deriver.DeriveBatch(records)
	if err != nil {
		return nil, fmt.Errorf("failed to derive features: %w", err)
	}

	started := time.Now()
	results, err := p.Evaluator.Evaluate(records, features)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate records: %w", err)
	}
	elapsed := time.Since(started)

	batch, err := model.NewEvaluationBatch(source, p.ModelVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	if err := batch.Complete(results, service.MostSevereIndex(results)); err != nil {
		return nil, fmt.Errorf("failed to complete batch: %w", err)
	}

	if err := p.Repo.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save batch: %w", err)
	}

	events := batch.DomainEvents()
	if len(events) > 0 {
		if err := p.Publisher.Publish(ctx, events...); err != nil {
			return nil, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	if p.Recorder != nil {
		p.Recorder.RecordBatch(batch, elapsed.Seconds())
	}

	return batch, nil
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan closes the span opened by startSpan and counts the outcome.
func endSpan(ctx context.Context, name string, span trace.Span, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("usecase", name),
		attribute.String("outcome", outcome),
	))
	span.End()
}
