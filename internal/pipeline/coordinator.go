package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"rankeval/internal/batch"
	"rankeval/internal/config"
	"rankeval/internal/dataset"
	"rankeval/internal/logging"
	"rankeval/internal/metric"
	"rankeval/internal/model"
	"rankeval/internal/runstore"
	"rankeval/internal/sink"
)

// State names the coordinator's lifecycle phases.
type State string

const (
	StateInit      State = "init"
	StateRestoring State = "restoring"
	StateRunning   State = "running"
	StateDraining  State = "draining"
	StateStopped   State = "stopped"
	StateFailed    State = "failed"
)

// Summary reports what a completed run did.
type Summary struct {
	RunID       string
	Model       string
	Checkpoint  string
	Destination string
	Examples    int64
	Batches     int64
	Skipped     int64
	Elapsed     time.Duration
}

// Coordinator drives one evaluation run end to end.
type Coordinator struct {
	cfg      *config.Config
	registry *model.Registry
	logger   *slog.Logger
	history  *runstore.Store
	recorded bool
	runID    string

	mu    sync.Mutex
	state State
}

// Option configures optional Coordinator behavior.
type Option func(*Coordinator)

// WithHistory records the run in the given store. Recording is best-effort;
// history failures never fail the run.
func WithHistory(store *runstore.Store) Option {
	return func(c *Coordinator) { c.history = store }
}

// WithRunID overrides the generated run identifier (used in tests).
func WithRunID(id string) Option {
	return func(c *Coordinator) { c.runID = id }
}

// New constructs a coordinator for one run of the configured evaluation.
func New(cfg *config.Config, registry *model.Registry, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:      cfg,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "coordinator"),
		runID:    uuid.NewString(),
		state:    StateInit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.String(logging.FieldRunID, c.runID))
	return c
}

// State returns the coordinator's current lifecycle phase.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.logger.Debug("state transition", logging.String(logging.FieldState, string(s)))
}

// Run executes the pipeline. It returns a summary on normal completion and
// an error after best-effort cleanup otherwise. Cancelling ctx stops the
// reader workers promptly, abandons in-flight batches, and still flushes
// whatever was already written.
func (c *Coordinator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	c.setState(StateInit)
	if err := c.validate(); err != nil {
		return nil, c.fail(err, nil, nil, nil, 0, 0)
	}

	c.recordBegin(ctx)

	c.setState(StateRestoring)
	ckpt, err := c.restore()
	if err != nil {
		return nil, c.fail(err, nil, nil, nil, 0, 0)
	}
	scorer, err := c.registry.New(c.cfg.Model.Name, ckpt)
	if err != nil {
		return nil, c.fail(err, nil, nil, nil, 0, 0)
	}
	c.logger.Info("checkpoint restored",
		logging.String("checkpoint", ckpt.Path),
		logging.String("model", scorer.Name()),
		logging.Int("num_classes", scorer.NumClasses()),
	)

	files, err := dataset.Glob(c.cfg.Input.DataPattern)
	if err != nil {
		return nil, c.fail(err, nil, nil, nil, 0, 0)
	}
	c.logger.Info("input files resolved", logging.Int("files", len(files)))

	out, err := sink.Open(c.cfg.Output.Destination)
	if err != nil {
		return nil, c.fail(err, nil, nil, nil, 0, 0)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	decoder := &dataset.Decoder{FrameLevel: c.cfg.Input.FrameLevel}
	pool := batch.NewPool(files, decoder, c.cfg.Input.NumReaders,
		batch.StagingFactor*c.cfg.Eval.BatchSize, c.logger)
	joiner := batch.NewJoiner(pool.Start(runCtx), c.cfg.Eval.BatchSize)

	c.setState(StateRunning)
	var examples, batches int64
	for {
		b, err := joiner.Next(runCtx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, c.fail(err, cancel, pool, out, examples, batches)
		}

		scored, err := scorer.Score(runCtx, b)
		if err != nil {
			return nil, c.fail(fmt.Errorf("score batch: %w", err), cancel, pool, out, examples, batches)
		}
		if err := out.WriteRecords(metric.Records(scored)); err != nil {
			return nil, c.fail(err, cancel, pool, out, examples, batches)
		}
		if err := out.Flush(); err != nil {
			return nil, c.fail(err, cancel, pool, out, examples, batches)
		}

		examples += int64(b.Len())
		batches++
		c.logger.Info("batch scored",
			logging.Int64("examples_processed", examples),
			logging.Float64("elapsed_seconds", time.Since(start).Seconds()),
		)
	}

	c.setState(StateDraining)
	if err := pool.Wait(); err != nil {
		return nil, c.fail(err, cancel, pool, out, examples, batches)
	}
	if decoded := pool.Decoded(); decoded != examples {
		err := fmt.Errorf("pipeline dropped examples: decoded %d, emitted %d", decoded, examples)
		return nil, c.fail(err, cancel, pool, out, examples, batches)
	}

	c.setState(StateStopped)
	if err := out.Close(); err != nil {
		return nil, c.fail(err, cancel, pool, nil, examples, batches)
	}

	skipped := pool.Skipped()
	if skipped > 0 {
		c.logger.Warn("run skipped malformed records", logging.Int64("skipped", skipped))
	}
	c.recordFinish(runstore.StateStopped, examples, batches, skipped, nil)

	summary := &Summary{
		RunID:       c.runID,
		Model:       scorer.Name(),
		Checkpoint:  ckpt.Path,
		Destination: c.cfg.Output.Destination,
		Examples:    examples,
		Batches:     batches,
		Skipped:     skipped,
		Elapsed:     time.Since(start),
	}
	c.logger.Info("run complete",
		logging.Int64("examples_processed", summary.Examples),
		logging.Int64("batches", summary.Batches),
		logging.Int64("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (c *Coordinator) validate() error {
	if c.cfg.Input.DataPattern == "" {
		return errors.New("input.data_pattern must be set")
	}
	if c.cfg.Output.Destination == "" {
		return errors.New("output.destination must be set")
	}
	if c.cfg.Model.CheckpointPath == "" && c.cfg.Model.CheckpointDir == "" {
		return errors.New("one of model.checkpoint_path or model.checkpoint_dir must be set")
	}
	return nil
}

func (c *Coordinator) restore() (*model.Checkpoint, error) {
	if c.cfg.Model.CheckpointPath != "" {
		return model.Restore(c.cfg.Model.CheckpointPath)
	}
	return model.RestoreLatest(c.cfg.Model.CheckpointDir)
}

// fail transitions to FAILED after best-effort cleanup: stop the readers,
// join them, and close the sink so already-flushed lines stay readable.
func (c *Coordinator) fail(err error, cancel context.CancelFunc, pool *batch.Pool, out *sink.Writer, examples, batches int64) error {
	c.setState(StateFailed)
	if cancel != nil {
		cancel()
	}
	var skipped int64
	if pool != nil {
		_ = pool.Wait()
		skipped = pool.Skipped()
	}
	if out != nil {
		if closeErr := out.Close(); closeErr != nil {
			c.logger.Warn("close output after failure", logging.Error(closeErr))
		}
	}
	c.logger.Error("run failed", logging.Error(err))
	c.recordFinish(runstore.StateFailed, examples, batches, skipped, err)
	return err
}

func (c *Coordinator) recordBegin(ctx context.Context) {
	if c.history == nil {
		return
	}
	checkpoint := c.cfg.Model.CheckpointPath
	if checkpoint == "" {
		checkpoint = c.cfg.Model.CheckpointDir
	}
	err := c.history.Begin(ctx, runstore.Run{
		ID:          c.runID,
		Model:       c.cfg.Model.Name,
		Checkpoint:  checkpoint,
		DataPattern: c.cfg.Input.DataPattern,
		Destination: c.cfg.Output.Destination,
	})
	if err != nil {
		c.logger.Warn("record run start", logging.Error(err))
		return
	}
	c.recorded = true
}

func (c *Coordinator) recordFinish(state string, examples, batches, skipped int64, runErr error) {
	if c.history == nil || !c.recorded {
		return
	}
	// Context may already be cancelled; history finalization gets its own.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.history.Finish(ctx, c.runID, state, examples, batches, skipped, runErr); err != nil {
		c.logger.Warn("record run outcome", logging.Error(err))
	}
}
