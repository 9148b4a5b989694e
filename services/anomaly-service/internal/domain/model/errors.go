package model

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is; each typed error below matches exactly one.
var (
	ErrValidation = errors.New("validation error")
	ErrDimension  = errors.New("dimension error")
	ErrScoring    = errors.New("scoring error")
)

// ValidationError reports a malformed or out-of-range telemetry record.
// Index is the record's position in its batch, or -1 when not applicable.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Index >= 0 && e.Field != "":
		return fmt.Sprintf("validation error: record %d: %s %s", e.Index, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
	default:
		return "validation error: " + e.Reason
	}
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DimensionError reports a feature-vector width that does not match what the
// scaler or model was fitted on.
type DimensionError struct {
	Stage string // "transform", "score" or "artifact"
	Index int
	Got   int
	Want  int
}

func (e *DimensionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("dimension error: %s: vector %d has %d columns, want %d", e.Stage, e.Index, e.Got, e.Want)
	}
	return fmt.Sprintf("dimension error: %s: got %d columns, want %d", e.Stage, e.Got, e.Want)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimension }

// ScoringError reports a failure of the scaler or model capability, or a
// breach of their contract such as returning the wrong number of scores.
type ScoringError struct {
	Stage string
	Err   error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring error: %s: %v", e.Stage, e.Err)
}

func (e *ScoringError) Is(target error) bool { return target == ErrScoring }

func (e *ScoringError) Unwrap() error { return e.Err }
