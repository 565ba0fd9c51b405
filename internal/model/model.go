package model

import (
	"context"

	"rankeval/internal/batch"
)

// Scorer maps a batch of examples to per-class prediction scores. Score must
// not mutate the batch and must be deterministic for a fixed checkpoint and
// input.
type Scorer interface {
	Name() string
	NumClasses() int
	Score(ctx context.Context, b *batch.Batch) (*batch.ScoredBatch, error)
}

// pooledFeatures returns the video-level feature row for the given batch
// index, mean-pooling frame-level examples. This is the default feature
// transform the frame-level readers feed through.
func pooledFeatures(b *batch.Batch, row int) []float32 {
	if features := b.Features[row]; len(features) > 0 {
		return features
	}
	frames := b.Frames[row]
	if len(frames) == 0 {
		return nil
	}
	dim := len(frames[0])
	pooled := make([]float32, dim)
	for _, frame := range frames {
		for i, v := range frame {
			pooled[i] += v
		}
	}
	inv := 1 / float32(len(frames))
	for i := range pooled {
		pooled[i] *= inv
	}
	return pooled
}
