// Package ingest holds the row shape shared by the transports and the
// alert_triggered pre-filter applied before upload and stream evaluation.
package ingest

import "github.com/infrarisk/sentinel/services/anomaly-service/internal/application/dto"

// Row is one telemetry row as carried by gRPC, REST and Kafka messages.
type Row struct {
	dto.RecordInput
	AlertTriggered *int `json:"alert_triggered,omitempty"`
}

// Triggered keeps rows whose alert_triggered flag is 1, in order, along with
// each kept row's position in rows. Rows without the flag are kept.
func Triggered(rows []Row) ([]dto.RecordInput, []int) {
	out := make([]dto.RecordInput, 0, len(rows))
	positions := make([]int, 0, len(rows))
	for i, r := range rows {
		if r.AlertTriggered != nil && *r.AlertTriggered != 1 {
			continue
		}
		out = append(out, r.RecordInput)
		positions = append(positions, i)
	}
	return out, positions
}
