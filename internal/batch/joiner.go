package batch

import (
	"context"
	"io"

	"rankeval/internal/dataset"
)

// StagingFactor sizes the staging channel relative to the batch size. Three
// batches of headroom let readers run ahead of scoring without unbounded
// memory growth.
const StagingFactor = 3

// Joiner is the single consumer of the reader pool's staging channel. It
// accumulates examples into batches of exactly batchSize, emitting one final
// shorter batch when the stream is exhausted.
type Joiner struct {
	in        <-chan dataset.Example
	batchSize int
	emitted   int64
	done      bool
}

// NewJoiner wraps the staging channel in a batch assembler.
func NewJoiner(in <-chan dataset.Example, batchSize int) *Joiner {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Joiner{in: in, batchSize: batchSize}
}

// Next blocks until a full batch is available or the stream ends. It returns
// io.EOF once all examples have been emitted; an empty remainder produces no
// final batch. Every decoded example appears in exactly one batch.
func (j *Joiner) Next(ctx context.Context) (*Batch, error) {
	if j.done {
		return nil, io.EOF
	}

	b := newBatch(j.batchSize)
	for b.Len() < j.batchSize {
		select {
		case ex, ok := <-j.in:
			if !ok {
				j.done = true
				if b.Len() == 0 {
					return nil, io.EOF
				}
				j.emitted += int64(b.Len())
				return b, nil
			}
			b.append(ex)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	j.emitted += int64(b.Len())
	return b, nil
}

// Emitted returns the total number of examples emitted across all batches.
func (j *Joiner) Emitted() int64 {
	return j.emitted
}
