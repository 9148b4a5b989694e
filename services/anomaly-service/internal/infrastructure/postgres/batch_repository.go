package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	pgutil "github.com/infrarisk/sentinel/pkg/postgres"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/valueobject"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pgutil.TxBeginner
	pgutil.Querier
}

var resultColumns = []string{
	"batch_id", "position",
	"cpu_usage_pct", "memory_usage_pct", "latency_ms",
	"ip_address", "observed_at", "mitigation_suggestion",
	"cpu_ram_interaction", "latency_per_cpu",
	"anomaly_score", "is_anomaly", "risk_level",
}

// BatchRepository implements port.BatchRepository using PostgreSQL.
type BatchRepository struct {
	db DB
}

// NewBatchRepository creates a new PostgreSQL-backed batch repository.
func NewBatchRepository(db DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Save inserts the batch header and bulk-copies its results in one transaction.
func (r *BatchRepository) Save(ctx context.Context, batch *model.EvaluationBatch) error {
	return pgutil.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO evaluation_batches (
				id, source, model_version,
				record_count, anomaly_count, most_severe_index,
				evaluated_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			batch.ID(),
			batch.Source().String(),
			batch.ModelVersion(),
			len(batch.Results()),
			batch.AnomalyCount(),
			mostSevereToDB(batch.MostSevereIndex()),
			batch.EvaluatedAt(),
			batch.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save batch: %w", err)
		}

		results := batch.Results()
		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"evaluation_results"},
			resultColumns,
			pgx.CopyFromSlice(len(results), func(i int) ([]any, error) {
				return resultRow(batch.ID(), i, results[i]), nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy results: %w", err)
		}
		if int(n) != len(results) {
			return fmt.Errorf("copied %d of %d results", n, len(results))
		}
		return nil
	})
}

// FindByID retrieves a batch and its results, or nil when it does not exist.
func (r *BatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EvaluationBatch, error) {
	var (
		sourceStr    string
		modelVersion string
		mostSevere   *int32
		evaluatedAt  time.Time
		createdAt    time.Time
	)

	err := r.db.QueryRow(ctx, `
		SELECT source, model_version, most_severe_index, evaluated_at, created_at
		FROM evaluation_batches
		WHERE id = $1
	`, id).Scan(&sourceStr, &modelVersion, &mostSevere, &evaluatedAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan batch: %w", err)
	}

	source, err := valueobject.BatchSourceFromString(sourceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	results, err := r.loadResults(ctx, id)
	if err != nil {
		return nil, err
	}

	return model.ReconstructBatch(
		id, source, modelVersion,
		results, mostSevereFromDB(mostSevere),
		evaluatedAt, createdAt,
	), nil
}

func (r *BatchRepository) loadResults(ctx context.Context, batchID uuid.UUID) ([]model.EvaluationResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT cpu_usage_pct, memory_usage_pct, latency_ms,
			ip_address, observed_at, mitigation_suggestion,
			cpu_ram_interaction, latency_per_cpu,
			anomaly_score, is_anomaly, risk_level
		FROM evaluation_results
		WHERE batch_id = $1
		ORDER BY position
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := make([]model.EvaluationResult, 0)
	for rows.Next() {
		var (
			res          model.EvaluationResult
			riskLevelStr string
		)
		if err := rows.Scan(
			&res.Record.CPUUsagePct, &res.Record.MemoryUsagePct, &res.Record.LatencyMs,
			&res.Record.IPAddress, &res.Record.Timestamp, &res.Record.MitigationSuggestion,
			&res.Features.CPURAMInteraction, &res.Features.LatencyPerCPU,
			&res.AnomalyScore, &res.IsAnomaly, &riskLevelStr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		res.RiskLevel, err = valueobject.RiskLevelFromString(riskLevelStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse risk level: %w", err)
		}
		res.Features.CPUUsagePct = res.Record.CPUUsagePct
		res.Features.MemoryUsagePct = res.Record.MemoryUsagePct
		res.Features.LatencyMs = res.Record.LatencyMs

		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}

func resultRow(batchID uuid.UUID, position int, r model.EvaluationResult) []any {
	return []any{
		batchID, int32(position),
		r.Record.CPUUsagePct, r.Record.MemoryUsagePct, r.Record.LatencyMs,
		r.Record.IPAddress, r.Record.Timestamp, r.Record.MitigationSuggestion,
		r.Features.CPURAMInteraction, r.Features.LatencyPerCPU,
		r.AnomalyScore, r.IsAnomaly, r.RiskLevel.String(),
	}
}

func mostSevereToDB(i int) *int32 {
	if i == model.NoAnomaly {
		return nil
	}
	v := int32(i)
	return &v
}

func mostSevereFromDB(v *int32) int {
	if v == nil {
		return model.NoAnomaly
	}
	return int(*v)
}
