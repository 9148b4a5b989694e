package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/usecase"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/presentation/ingest"
)

// Compile-time assertion that AnomalyServiceHandler implements AnomalyServiceServer.
var _ AnomalyServiceServer = (*AnomalyServiceHandler)(nil)

// AnomalyServiceHandler implements the gRPC AnomalyServiceServer interface.
type AnomalyServiceHandler struct {
	UnimplementedAnomalyServiceServer
	evaluateBatch   *usecase.EvaluateBatch
	evaluateReading *usecase.EvaluateReading
	getBatch        *usecase.GetBatch
	logger          *slog.Logger
}

// NewAnomalyServiceHandler creates a new gRPC handler.
func NewAnomalyServiceHandler(
	evaluateBatch *usecase.EvaluateBatch,
	evaluateReading *usecase.EvaluateReading,
	getBatch *usecase.GetBatch,
	logger *slog.Logger,
) *AnomalyServiceHandler {
	return &AnomalyServiceHandler{
		evaluateBatch:   evaluateBatch,
		evaluateReading: evaluateReading,
		getBatch:        getBatch,
		logger:          logger,
	}
}

// Proto-aligned request/response message types.

// EvaluateBatchRequest represents the proto EvaluateBatchRequest message.
// Rows whose alert_triggered flag is not 1 are dropped before evaluation.
type EvaluateBatchRequest struct {
	Records []ingest.Row `json:"records"`
}

// EvaluateReadingRequest represents the proto EvaluateReadingRequest message.
type EvaluateReadingRequest struct {
	Record *dto.RecordInput `json:"record"`
}

// GetBatchRequest represents the proto GetBatchRequest message.
type GetBatchRequest struct {
	ID string `json:"id"`
}

// EvaluationResponse represents the proto EvaluationResponse message.
type EvaluationResponse struct {
	Batch *dto.BatchResponse `json:"batch"`
}

// EvaluateBatch scores an uploaded set of rows.
func (h *AnomalyServiceHandler) EvaluateBatch(ctx context.Context, req *EvaluateBatchRequest) (*EvaluationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	records, rows := ingest.Triggered(req.Records)
	h.logger.InfoContext(ctx, "evaluating batch",
		slog.Int("received", len(req.Records)),
		slog.Int("triggered", len(records)),
	)

	result, err := h.evaluateBatch.Execute(ctx, dto.EvaluateBatchRequest{Records: records, Rows: rows})
	if err != nil {
		return nil, h.toStatus(ctx, "EvaluateBatch", err)
	}
	return &EvaluationResponse{Batch: &result}, nil
}

// EvaluateReading scores a single manually entered reading.
func (h *AnomalyServiceHandler) EvaluateReading(ctx context.Context, req *EvaluateReadingRequest) (*EvaluationResponse, error) {
	if req == nil || req.Record == nil {
		return nil, status.Error(codes.InvalidArgument, "record is required")
	}

	result, err := h.evaluateReading.Execute(ctx, dto.EvaluateReadingRequest{Record: *req.Record})
	if err != nil {
		return nil, h.toStatus(ctx, "EvaluateReading", err)
	}
	return &EvaluationResponse{Batch: &result}, nil
}

// GetBatch returns a stored evaluation batch.
func (h *AnomalyServiceHandler) GetBatch(ctx context.Context, req *GetBatchRequest) (*EvaluationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	batchID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getBatch.Execute(ctx, dto.GetBatchRequest{BatchID: batchID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetBatch", err)
	}
	return &EvaluationResponse{Batch: &result}, nil
}

// toStatus maps use case errors onto gRPC codes. Internal errors are logged
// and not echoed to the caller.
func (h *AnomalyServiceHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrDimension):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrScoring):
		h.logger.WarnContext(ctx, "scoring failed", slog.String("method", method), slog.String("error", err.Error()))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, usecase.ErrBatchNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", slog.String("method", method), slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}
