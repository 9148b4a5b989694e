package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/infrarisk/sentinel/pkg/events"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/event"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"
)

// NoAnomaly is the most-severe index of a batch without anomalous records.
const NoAnomaly = -1

// EvaluationBatch is the aggregate root for one scored set of telemetry
// records. Results keep the caller's input order.
type EvaluationBatch struct {
	evaluatedAt  time.Time
	createdAt    time.Time
	source       valueobject.BatchSource
	modelVersion string
	results      []EvaluationResult
	collector    events.EventCollector
	mostSevere   int
	id           uuid.UUID
}

// NewEvaluationBatch creates an empty batch; call Complete to attach results.
func NewEvaluationBatch(source valueobject.BatchSource, modelVersion string) (*EvaluationBatch, error) {
	if source.IsZero() {
		return nil, fmt.Errorf("batch source is required")
	}
	if modelVersion == "" {
		return nil, fmt.Errorf("model version is required")
	}

	return &EvaluationBatch{
		id:           uuid.New(),
		source:       source,
		modelVersion: modelVersion,
		mostSevere:   NoAnomaly,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Complete attaches the evaluated results and the index chosen as most
// severe (NoAnomaly when none), then records the batch events.
func (b *EvaluationBatch) Complete(results []EvaluationResult, mostSevere int) error {
	if !b.evaluatedAt.IsZero() {
		return fmt.Errorf("batch %s already evaluated", b.id)
	}
	if len(results) == 0 {
		return &ValidationError{Index: -1, Reason: "batch contains no records"}
	}
	if mostSevere != NoAnomaly {
		if mostSevere < 0 || mostSevere >= len(results) {
			return fmt.Errorf("most severe index %d out of range [0,%d)", mostSevere, len(results))
		}
		if !results[mostSevere].IsAnomaly {
			return fmt.Errorf("most severe record %d is not anomalous", mostSevere)
		}
	}

	b.results = append([]EvaluationResult(nil), results...)
	b.mostSevere = mostSevere
	b.evaluatedAt = time.Now().UTC()

	b.collector.Record(event.NewBatchEvaluated(
		b.id, b.source.String(), b.modelVersion,
		len(b.results), b.AnomalyCount(), b.TierCounts(),
		b.evaluatedAt,
	))

	if top, ok := b.MostSevere(); ok {
		b.collector.Record(event.NewAnomalyAlertRaised(
			b.id, b.mostSevere,
			top.RiskLevel.String(), top.AnomalyScore,
			top.Record.IPAddress, top.Record.Timestamp, top.Record.MitigationSuggestion,
			b.evaluatedAt,
		))
	}

	return nil
}

// ReconstructBatch rebuilds a batch from persisted data (no validation, no events).
func ReconstructBatch(
	id uuid.UUID,
	source valueobject.BatchSource,
	modelVersion string,
	results []EvaluationResult,
	mostSevere int,
	evaluatedAt, createdAt time.Time,
) *EvaluationBatch {
	return &EvaluationBatch{
		id:           id,
		source:       source,
		modelVersion: modelVersion,
		results:      results,
		mostSevere:   mostSevere,
		evaluatedAt:  evaluatedAt,
		createdAt:    createdAt,
	}
}

// MostSevere returns the record chosen for alerting, if any.
func (b *EvaluationBatch) MostSevere() (EvaluationResult, bool) {
	if b.mostSevere == NoAnomaly || b.mostSevere >= len(b.results) {
		return EvaluationResult{}, false
	}
	return b.results[b.mostSevere], true
}

// Anomalies returns the anomalous results in input order.
func (b *EvaluationBatch) Anomalies() []EvaluationResult {
	out := make([]EvaluationResult, 0, len(b.results))
	for _, r := range b.results {
		if r.IsAnomaly {
			out = append(out, r)
		}
	}
	return out
}

// AnomalyCount returns the number of anomalous results.
func (b *EvaluationBatch) AnomalyCount() int {
	n := 0
	for _, r := range b.results {
		if r.IsAnomaly {
			n++
		}
	}
	return n
}

// TierCounts counts results per risk level across the whole batch.
func (b *EvaluationBatch) TierCounts() map[string]int {
	counts := map[string]int{
		valueobject.RiskLevelHigh.String():     0,
		valueobject.RiskLevelModerate.String(): 0,
		valueobject.RiskLevelLow.String():      0,
	}
	for _, r := range b.results {
		counts[r.RiskLevel.String()]++
	}
	return counts
}

// --- Accessors ---

func (b *EvaluationBatch) ID() uuid.UUID                   { return b.id }
func (b *EvaluationBatch) Source() valueobject.BatchSource { return b.source }
func (b *EvaluationBatch) ModelVersion() string            { return b.modelVersion }
func (b *EvaluationBatch) Results() []EvaluationResult     { return b.results }
func (b *EvaluationBatch) MostSevereIndex() int            { return b.mostSevere }
func (b *EvaluationBatch) EvaluatedAt() time.Time          { return b.evaluatedAt }
func (b *EvaluationBatch) CreatedAt() time.Time            { return b.createdAt }

// DomainEvents returns all accumulated domain events and clears them.
func (b *EvaluationBatch) DomainEvents() []events.DomainEvent {
	return b.collector.ClearEvents()
}
