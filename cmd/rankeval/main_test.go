package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rankeval/internal/runstore"
	"rankeval/internal/testsupport"
)

func setupCLIHome(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	return base
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestModelsCommand(t *testing.T) {
	setupCLIHome(t)

	out, _, err := runCLI(t, []string{"models"}, "")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	requireContains(t, out, "linear")
	requireContains(t, out, "logistic")
}

func TestConfigInitAndValidate(t *testing.T) {
	setupCLIHome(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestRunAndRunsCommands(t *testing.T) {
	base := setupCLIHome(t)

	dataDir := filepath.Join(base, "data")
	testsupport.WriteShard(t, filepath.Join(dataDir, "shard-00.jsonl"),
		testsupport.VideoLine("vid-1", []float64{1, 0}, []int{0}),
		testsupport.VideoLine("vid-2", []float64{0, 1}, []int{0}),
	)
	checkpoint := testsupport.WriteCheckpoint(t, filepath.Join(base, "checkpoint-1.json"),
		"linear", [][]float64{{1, 0}, {0, 1}}, nil)
	output := filepath.Join(base, "scores.tsv")

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[logging]\nformat = %q\nlevel = %q\n", "json", "error")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := runCLI(t, []string{
		"run",
		"--input", filepath.Join(dataDir, "shard-*.jsonl"),
		"--output", output,
		"--checkpoint", checkpoint,
		"--model", "linear",
		"--batch-size", "2",
	}, configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Scored 2 examples in 1 batches")
	requireContains(t, out, output)

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "vid-1\t0")
	requireContains(t, string(data), "vid-2\t1")

	out, _, err = runCLI(t, []string{"runs"}, configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "linear")
	requireContains(t, out, "stopped")
}

func TestRenderRunsTable(t *testing.T) {
	started := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	rendered := renderRunsTable([]runstore.Run{
		{
			ID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
			Model:      "logistic",
			State:      runstore.StateStopped,
			Examples:   4096,
			Skipped:    2,
			StartedAt:  started,
			FinishedAt: started.Add(90 * time.Second),
		},
		{
			ID:        "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			Model:     "linear",
			State:     runstore.StateRunning,
			StartedAt: started,
		},
	})

	for _, want := range []string{"ID", "MODEL", "DURATION", "0f8fad5b", "logistic", "stopped", "4096", "1m30s"} {
		requireContains(t, rendered, want)
	}
	if strings.Contains(rendered, "0f8fad5b-d9cb") {
		t.Fatal("expected run IDs to be shortened")
	}
	// An unfinished run has no duration to report.
	requireContains(t, rendered, "-")
}

func TestRunFailsWithoutInput(t *testing.T) {
	setupCLIHome(t)

	_, _, err := runCLI(t, []string{"run"}, "")
	if err == nil {
		t.Fatal("expected run to fail without input configuration")
	}
}
