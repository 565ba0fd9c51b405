package testsupport

import (
	"path/filepath"
	"testing"

	"rankeval/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = ""
	cfg.Output.Destination = filepath.Join(base, "scores.tsv")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBatchSize overrides the scoring batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Eval.BatchSize = size
	}
}

// WithModel selects the named model with the given checkpoint file.
func WithModel(name, checkpointPath string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Model.Name = name
		cfg.Model.CheckpointPath = checkpointPath
	}
}
