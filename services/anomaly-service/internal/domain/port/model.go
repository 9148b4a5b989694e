package port

// Scorer is the trained outlier model. Score returns one decision value per
// input vector, in input order; more negative means more anomalous.
// Implementations must be safe for concurrent use once loaded.
type Scorer interface {
	Score(vectors [][]float64) ([]float64, error)
}

// Transformer is the pre-fitted scaler applied to feature vectors before
// scoring. It returns new vectors and never mutates its input.
type Transformer interface {
	Transform(vectors [][]float64) ([][]float64, error)
}

// Dimensioned is implemented by a Scorer or Transformer that knows the
// vector width it was fitted on.
type Dimensioned interface {
	Dimension() int
}
