package batch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"rankeval/internal/dataset"
	"rankeval/internal/logging"
)

// Pool fans shard decoding out across reader workers. Files are dealt to
// workers round-robin by index, so every shard is read by exactly one worker
// exactly once; each worker processes its shards strictly in sequence.
type Pool struct {
	files   []string
	decoder *dataset.Decoder
	workers int
	logger  *slog.Logger

	out     chan dataset.Example
	group   *errgroup.Group
	decoded atomic.Int64
	skipped atomic.Int64
}

// NewPool constructs a reader pool over the given shard set. Capacity bounds
// the staging channel shared by all workers.
func NewPool(files []string, decoder *dataset.Decoder, workers, capacity int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{
		files:   files,
		decoder: decoder,
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "reader-pool"),
		out:     make(chan dataset.Example, capacity),
	}
}

// Start launches the reader workers and returns the staging channel. The
// channel is closed once every worker has exhausted its shards; callers must
// then check Wait for worker errors.
func (p *Pool) Start(ctx context.Context) <-chan dataset.Example {
	group, ctx := errgroup.WithContext(ctx)
	p.group = group

	for w := 0; w < p.workers; w++ {
		worker := w
		group.Go(func() error {
			return p.runWorker(ctx, worker)
		})
	}

	go func() {
		_ = group.Wait()
		close(p.out)
	}()

	return p.out
}

// Wait blocks until all workers have finished and returns the first worker
// error, if any. The staging channel is closed by the time Wait returns.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// Decoded returns the number of examples decoded so far.
func (p *Pool) Decoded() int64 {
	return p.decoded.Load()
}

// Skipped returns the number of malformed records skipped so far.
func (p *Pool) Skipped() int64 {
	return p.skipped.Load()
}

func (p *Pool) runWorker(ctx context.Context, worker int) error {
	for i := worker; i < len(p.files); i += p.workers {
		path := p.files[i]
		skipped, err := p.decoder.DecodeFile(ctx, path, func(ex dataset.Example) error {
			select {
			case p.out <- ex:
				p.decoded.Add(1)
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if skipped > 0 {
			p.skipped.Add(int64(skipped))
			p.logger.Warn("skipped malformed records",
				logging.String("shard", path),
				logging.Int("skipped", skipped),
			)
		}
		if err != nil {
			return err
		}
		p.logger.Debug("shard drained",
			logging.String("shard", path),
			logging.Int("worker", worker),
		)
	}
	return nil
}
