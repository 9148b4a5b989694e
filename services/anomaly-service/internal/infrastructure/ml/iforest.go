package ml

import (
	"fmt"
	"math"
)

// eulerGamma is the Euler–Mascheroni constant used by the average path length.
const eulerGamma = 0.5772156649015329

// Node is one node of an isolation tree. Leaf nodes have Left == -1.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	NSamples  int     `json:"n_samples"`
}

// Tree is an isolation tree stored as a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// IsolationForest scores vectors with a pre-trained isolation forest.
// Score returns decision values: negative for outliers, positive for inliers.
type IsolationForest struct {
	trees      []Tree
	dim        int
	maxSamples int
	offset     float64
	norm       float64 // c(maxSamples)
}

// NewIsolationForest validates the trees and returns a scorer for vectors of
// width dim.
func NewIsolationForest(trees []Tree, dim, maxSamples int, offset float64) (*IsolationForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dim)
	}
	if maxSamples < 2 {
		return nil, fmt.Errorf("max_samples must be at least 2, got %d", maxSamples)
	}
	for i, t := range trees {
		if err := t.validate(dim); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	return &IsolationForest{
		trees:      trees,
		dim:        dim,
		maxSamples: maxSamples,
		offset:     offset,
		norm:       averagePathLength(maxSamples),
	}, nil
}

// Dimension returns the vector width the forest was trained on.
func (f *IsolationForest) Dimension() int { return f.dim }

// Score returns one decision value per vector.
func (f *IsolationForest) Score(vectors [][]float64) ([]float64, error) {
	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != f.dim {
			return nil, fmt.Errorf("vector %d has %d columns, want %d", i, len(v), f.dim)
		}
		scores[i] = f.scoreSamples(v) - f.offset
	}
	return scores, nil
}

// scoreSamples is the opposite of the anomaly score of the original paper:
// -2^(-E[h(x)]/c(maxSamples)).
func (f *IsolationForest) scoreSamples(v []float64) float64 {
	var total float64
	for _, t := range f.trees {
		total += t.pathLength(v)
	}
	mean := total / float64(len(f.trees))
	return -math.Pow(2, -mean/f.norm)
}

func (t Tree) pathLength(v []float64) float64 {
	depth := 0
	i := 0
	for t.Nodes[i].Left != -1 {
		n := t.Nodes[i]
		if v[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
		depth++
	}
	return float64(depth) + averagePathLength(t.Nodes[i].NSamples)
}

// validate rejects trees that would index out of range or loop. Children
// must come after their parent.
func (t Tree) validate(dim int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Left == -1 {
			if n.NSamples < 1 {
				return fmt.Errorf("leaf %d has n_samples %d", i, n.NSamples)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= dim {
			return fmt.Errorf("node %d splits on feature %d, dimension is %d", i, n.Feature, dim)
		}
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, c)
			}
		}
	}
	return nil
}

// averagePathLength is c(n), the average path length of an unsuccessful
// search in a binary search tree of n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	}
}
