package batch

import "rankeval/internal/dataset"

// Batch groups examples for one scoring call. Rows of IDs, Features (or
// Frames), Labels, and FrameCounts correspond by index. Only the final batch
// of a run may be shorter than the configured batch size.
type Batch struct {
	IDs         []string
	Features    [][]float32
	Frames      [][][]float32
	FrameCounts []int
	Labels      [][]int
}

// Len returns the number of examples in the batch.
func (b *Batch) Len() int {
	return len(b.IDs)
}

// ScoredBatch is a Batch plus per-class prediction scores, aligned row for
// row with the input examples.
type ScoredBatch struct {
	*Batch
	Predictions [][]float64
}

func newBatch(capacity int) *Batch {
	return &Batch{
		IDs:         make([]string, 0, capacity),
		Features:    make([][]float32, 0, capacity),
		Frames:      make([][][]float32, 0, capacity),
		FrameCounts: make([]int, 0, capacity),
		Labels:      make([][]int, 0, capacity),
	}
}

func (b *Batch) append(ex dataset.Example) {
	b.IDs = append(b.IDs, ex.ID)
	b.Features = append(b.Features, ex.Features)
	b.Frames = append(b.Frames, ex.Frames)
	b.FrameCounts = append(b.FrameCounts, ex.FrameCount)
	b.Labels = append(b.Labels, ex.Labels)
}
