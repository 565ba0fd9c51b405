package model

import (
	"context"
	"fmt"
	"math"

	"rankeval/internal/batch"
)

// linearScorer computes per-class scores as weights·features + bias, with an
// optional sigmoid squashing the output into (0, 1). Both variants restore
// from the same checkpoint shape.
type linearScorer struct {
	name    string
	ckpt    *Checkpoint
	sigmoid bool
}

// NewLinear builds a raw linear scorer from the checkpoint.
func NewLinear(ckpt *Checkpoint) (Scorer, error) {
	return &linearScorer{name: "linear", ckpt: ckpt}, nil
}

// NewLogistic builds a per-class logistic regression scorer from the
// checkpoint.
func NewLogistic(ckpt *Checkpoint) (Scorer, error) {
	return &linearScorer{name: "logistic", ckpt: ckpt, sigmoid: true}, nil
}

func (s *linearScorer) Name() string { return s.name }

func (s *linearScorer) NumClasses() int { return s.ckpt.NumClasses }

func (s *linearScorer) Score(ctx context.Context, b *batch.Batch) (*batch.ScoredBatch, error) {
	predictions := make([][]float64, b.Len())
	for row := 0; row < b.Len(); row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		features := pooledFeatures(b, row)
		if len(features) != s.ckpt.FeatureDim {
			return nil, fmt.Errorf("example %s: feature dim %d does not match checkpoint dim %d",
				b.IDs[row], len(features), s.ckpt.FeatureDim)
		}

		scores := make([]float64, s.ckpt.NumClasses)
		for class := 0; class < s.ckpt.NumClasses; class++ {
			weights := s.ckpt.Weights[class]
			sum := 0.0
			for i, v := range features {
				sum += weights[i] * float64(v)
			}
			if len(s.ckpt.Bias) > 0 {
				sum += s.ckpt.Bias[class]
			}
			if s.sigmoid {
				sum = 1 / (1 + math.Exp(-sum))
			}
			scores[class] = sum
		}
		predictions[row] = scores
	}

	return &batch.ScoredBatch{Batch: b, Predictions: predictions}, nil
}
