package dataset_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"rankeval/internal/dataset"
)

func writeShard(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := []byte(strings.Join(lines, "\n") + "\n")

	switch filepath.Ext(name) {
	case ".gz":
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			t.Fatalf("gzip shard: %v", err)
		}
		if err := gz.Close(); err != nil {
			t.Fatalf("close gzip shard: %v", err)
		}
		data = buf.Bytes()
	case ".zst":
		var buf bytes.Buffer
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		if _, err := zw.Write(data); err != nil {
			t.Fatalf("zstd shard: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("close zstd shard: %v", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write shard: %v", err)
	}
	return path
}

func collect(t *testing.T, dec *dataset.Decoder, path string) ([]dataset.Example, int) {
	t.Helper()
	var examples []dataset.Example
	skipped, err := dec.DecodeFile(context.Background(), path, func(ex dataset.Example) error {
		examples = append(examples, ex)
		return nil
	})
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	return examples, skipped
}

func TestDecodeVideoLevelShard(t *testing.T) {
	path := writeShard(t, "shard.jsonl",
		`{"id":"vid-1","features":[0.5,1.0],"labels":[7,3]}`,
		`{"id":"vid-2","features":[0.25,0.75],"labels":[]}`,
	)

	examples, skipped := collect(t, &dataset.Decoder{}, path)
	if skipped != 0 {
		t.Fatalf("expected no skips, got %d", skipped)
	}
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if examples[0].ID != "vid-1" {
		t.Fatalf("unexpected first id: %q", examples[0].ID)
	}
	if !reflect.DeepEqual(examples[0].Labels, []int{3, 7}) {
		t.Fatalf("expected labels sorted ascending, got %v", examples[0].Labels)
	}
	if examples[0].FrameLevel() {
		t.Fatal("video-level example reported frame-level")
	}
	if len(examples[1].Labels) != 0 {
		t.Fatalf("expected empty label set, got %v", examples[1].Labels)
	}
}

func TestDecodeFrameLevelShard(t *testing.T) {
	path := writeShard(t, "shard.jsonl",
		`{"id":"vid-1","frames":[[0.1,0.2],[0.3,0.4],[0.5,0.6]],"labels":[2]}`,
	)

	examples, skipped := collect(t, &dataset.Decoder{FrameLevel: true}, path)
	if skipped != 0 {
		t.Fatalf("expected no skips, got %d", skipped)
	}
	if len(examples) != 1 {
		t.Fatalf("expected 1 example, got %d", len(examples))
	}
	ex := examples[0]
	if !ex.FrameLevel() || ex.FrameCount != 3 {
		t.Fatalf("unexpected frame shape: frameLevel=%v count=%d", ex.FrameLevel(), ex.FrameCount)
	}
}

func TestDecodeSkipsMalformedRecords(t *testing.T) {
	path := writeShard(t, "shard.jsonl",
		`{"id":"vid-1","features":[1],"labels":[0]}`,
		`not json at all`,
		`{"id":"","features":[1],"labels":[0]}`,
		`{"id":"vid-2","labels":[0]}`,
		`{"id":"vid-3","features":[1],"labels":[-4]}`,
		`{"id":"vid-4","features":[2],"labels":[1]}`,
	)

	examples, skipped := collect(t, &dataset.Decoder{}, path)
	if skipped != 4 {
		t.Fatalf("expected 4 skipped records, got %d", skipped)
	}
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if examples[0].ID != "vid-1" || examples[1].ID != "vid-4" {
		t.Fatalf("unexpected surviving ids: %q %q", examples[0].ID, examples[1].ID)
	}
}

func TestDecodeCompressedShards(t *testing.T) {
	line := `{"id":"vid-1","features":[0.5],"labels":[0]}`
	for _, name := range []string{"shard.jsonl.gz", "shard.jsonl.zst"} {
		path := writeShard(t, name, line)
		examples, skipped := collect(t, &dataset.Decoder{}, path)
		if skipped != 0 || len(examples) != 1 || examples[0].ID != "vid-1" {
			t.Fatalf("%s: unexpected decode result: %d examples, %d skipped", name, len(examples), skipped)
		}
	}
}

func TestDecodeMissingFileIsFatal(t *testing.T) {
	dec := &dataset.Decoder{}
	_, err := dec.DecodeFile(context.Background(), filepath.Join(t.TempDir(), "absent.jsonl"), func(dataset.Example) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing shard")
	}
}

func TestDecodeHonorsCancellation(t *testing.T) {
	path := writeShard(t, "shard.jsonl",
		`{"id":"vid-1","features":[1],"labels":[0]}`,
		`{"id":"vid-2","features":[1],"labels":[0]}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dec := &dataset.Decoder{}
	_, err := dec.DecodeFile(ctx, path, func(dataset.Example) error { return nil })
	if err == nil {
		t.Fatal("expected context error")
	}
}
