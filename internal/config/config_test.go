package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rankeval/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Input.NumReaders != 2 {
		t.Fatalf("unexpected num_readers default: %d", cfg.Input.NumReaders)
	}
	if cfg.Eval.BatchSize != 8192 {
		t.Fatalf("unexpected batch_size default: %d", cfg.Eval.BatchSize)
	}
	if cfg.Eval.TopK != 20 {
		t.Fatalf("unexpected top_k default: %d", cfg.Eval.TopK)
	}
	if cfg.Model.Name != "logistic" {
		t.Fatalf("unexpected model default: %q", cfg.Model.Name)
	}
	if cfg.Input.FrameLevel {
		t.Fatal("expected frame_level disabled by default")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "rankeval")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadParsesAndNormalizesFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[input]
data_pattern = "  /data/shards/*.jsonl  "
frame_level = true
num_readers = 4

[model]
name = "linear"
checkpoint_dir = "~/checkpoints"

[output]
destination = "/tmp/out.tsv"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Input.DataPattern != "/data/shards/*.jsonl" {
		t.Fatalf("pattern not trimmed: %q", cfg.Input.DataPattern)
	}
	if !cfg.Input.FrameLevel || cfg.Input.NumReaders != 4 {
		t.Fatalf("input section not applied: %+v", cfg.Input)
	}
	if cfg.Model.CheckpointDir != filepath.Join(tempHome, "checkpoints") {
		t.Fatalf("checkpoint dir not expanded: %q", cfg.Model.CheckpointDir)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not normalized: %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero readers", func(c *config.Config) { c.Input.NumReaders = 0 }, "num_readers"},
		{"zero batch size", func(c *config.Config) { c.Eval.BatchSize = 0 }, "batch_size"},
		{"zero top k", func(c *config.Config) { c.Eval.TopK = 0 }, "top_k"},
		{"empty model", func(c *config.Config) { c.Model.Name = "" }, "model.name"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}
