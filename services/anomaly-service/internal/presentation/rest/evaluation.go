package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/usecase"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/model"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/presentation/ingest"
)

const maxBodyBytes = 16 << 20

// EvaluationHandler serves the evaluation endpoints.
type EvaluationHandler struct {
	evaluateBatch   *usecase.EvaluateBatch
	evaluateReading *usecase.EvaluateReading
	getBatch        *usecase.GetBatch
	exportBatch     *usecase.ExportBatch
	logger          *slog.Logger
}

// NewEvaluationHandler creates a new evaluation HTTP handler.
func NewEvaluationHandler(
	evaluateBatch *usecase.EvaluateBatch,
	evaluateReading *usecase.EvaluateReading,
	getBatch *usecase.GetBatch,
	exportBatch *usecase.ExportBatch,
	logger *slog.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluateBatch:   evaluateBatch,
		evaluateReading: evaluateReading,
		getBatch:        getBatch,
		exportBatch:     exportBatch,
		logger:          logger,
	}
}

// UploadRequest is the body of POST /v1/evaluations.
type UploadRequest struct {
	Records []ingest.Row `json:"records"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes registers evaluation endpoints on the provided ServeMux.
func (h *EvaluationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/evaluations", h.Upload)
	mux.HandleFunc("POST /v1/readings", h.Reading)
	mux.HandleFunc("GET /v1/evaluations/{id}", h.Get)
	mux.HandleFunc("GET /v1/evaluations/{id}/export", h.Export)
}

// Upload evaluates the rows of an uploaded file whose alert_triggered flag is 1.
func (h *EvaluationHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, rows := ingest.Triggered(req.Records)
	resp, err := h.evaluateBatch.Execute(r.Context(), dto.EvaluateBatchRequest{
		Records: records,
		Rows:    rows,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Reading evaluates one manually entered reading.
func (h *EvaluationHandler) Reading(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateReadingRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.evaluateReading.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get returns a stored batch.
func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	resp, err := h.getBatch.Execute(r.Context(), dto.GetBatchRequest{BatchID: id})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Export downloads a stored batch as CSV.
func (h *EvaluationHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var buf bytes.Buffer
	if err := h.exportBatch.Execute(r.Context(), dto.GetBatchRequest{BatchID: id}, &buf); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="anomaly_results_%s.csv"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *EvaluationHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", msg),
		)
		msg = "internal error"
	}
	writeError(w, code, msg)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrDimension):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrScoring):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrBatchNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg})
}
