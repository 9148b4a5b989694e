package ml

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StandardScaler applies (x - mean) / scale column-wise with parameters
// fitted offline. It is read-only after construction.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler builds a scaler. A zero scale is treated as 1, matching
// how the fitting library handles constant columns.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("scaler mean is empty")
	}
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler mean has %d columns, scale has %d", len(mean), len(scale))
	}

	s := &StandardScaler{
		mean:  append([]float64(nil), mean...),
		scale: make([]float64, len(scale)),
	}
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// Dimension returns the number of columns the scaler was fitted on.
func (s *StandardScaler) Dimension() int { return len(s.mean) }

// Transform returns scaled copies of vectors.
func (s *StandardScaler) Transform(vectors [][]float64) ([][]float64, error) {
	if len(vectors) == 0 {
		return [][]float64{}, nil
	}

	d := s.Dimension()
	flat := make([]float64, 0, len(vectors)*d)
	for i, v := range vectors {
		if len(v) != d {
			return nil, fmt.Errorf("vector %d has %d columns, want %d", i, len(v), d)
		}
		flat = append(flat, v...)
	}

	m := mat.NewDense(len(vectors), d, flat)
	m.Apply(func(_, j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	}, m)

	out := make([][]float64, len(vectors))
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out, nil
}
