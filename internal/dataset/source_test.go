package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rankeval/internal/dataset"
)

func TestGlobReturnsSortedMatches(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"shard-02.jsonl", "shard-00.jsonl", "shard-01.jsonl", "other.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	files, err := dataset.Glob(filepath.Join(dir, "shard-*.jsonl"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(files))
	}
	for i, want := range []string{"shard-00.jsonl", "shard-01.jsonl", "shard-02.jsonl"} {
		if filepath.Base(files[i]) != want {
			t.Fatalf("match %d: got %q want %q", i, files[i], want)
		}
	}
}

func TestGlobEmptyMatchIsFatal(t *testing.T) {
	dir := t.TempDir()
	_, err := dataset.Glob(filepath.Join(dir, "missing-*.jsonl"))
	if !errors.Is(err, dataset.ErrNoInputFiles) {
		t.Fatalf("expected ErrNoInputFiles, got %v", err)
	}
}
