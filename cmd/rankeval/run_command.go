package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"rankeval/internal/logging"
	"rankeval/internal/model"
	"rankeval/internal/pipeline"
	"rankeval/internal/runstore"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		inputPattern  string
		outputPath    string
		checkpoint    string
		checkpointDir string
		modelName     string
		batchSize     int
		numReaders    int
		topK          int
		frameLevel    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score the configured dataset and write per-example error rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.Input.DataPattern = inputPattern
			}
			if flags.Changed("output") {
				cfg.Output.Destination = outputPath
			}
			if flags.Changed("checkpoint") {
				cfg.Model.CheckpointPath = checkpoint
				cfg.Model.CheckpointDir = ""
			}
			if flags.Changed("checkpoint-dir") {
				cfg.Model.CheckpointDir = checkpointDir
			}
			if flags.Changed("model") {
				cfg.Model.Name = modelName
			}
			if flags.Changed("batch-size") {
				cfg.Eval.BatchSize = batchSize
			}
			if flags.Changed("num-readers") {
				cfg.Input.NumReaders = numReaders
			}
			if flags.Changed("top-k") {
				cfg.Eval.TopK = topK
			}
			if flags.Changed("frame-level") {
				cfg.Input.FrameLevel = frameLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			lock := flock.New(filepath.Join(cfg.Paths.StateDir, "rankeval.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return errors.New("another rankeval run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			store, err := runstore.Open(cfg.Paths.StateDir)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			coordinator := pipeline.New(cfg, model.Builtin(), logger, pipeline.WithHistory(store))
			summary, err := coordinator.Run(runCtx)
			if err != nil {
				return err
			}

			printer := message.NewPrinter(language.English)
			out := cmd.OutOrStdout()
			printer.Fprintf(out, "Scored %d examples in %d batches (%.1fs)\n",
				summary.Examples, summary.Batches, summary.Elapsed.Seconds())
			if summary.Skipped > 0 {
				printer.Fprintf(out, "Skipped %d malformed records\n", summary.Skipped)
			}
			fmt.Fprintf(out, "Model: %s (checkpoint %s)\n", summary.Model, summary.Checkpoint)
			fmt.Fprintf(out, "Output: %s\n", summary.Destination)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPattern, "input", "i", "", "Glob selecting input shard files")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "", "Checkpoint file to restore")
	cmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", "", "Directory to restore the latest checkpoint from")
	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Registered model name")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Examples per scoring batch")
	cmd.Flags().IntVar(&numReaders, "num-readers", 0, "Concurrent shard readers")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Reported top-k setting")
	cmd.Flags().BoolVar(&frameLevel, "frame-level", false, "Read frame-level records and mean-pool them")

	return cmd
}
