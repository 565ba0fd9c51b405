package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteShard writes a JSON Lines shard file containing the given lines.
func WriteShard(t testing.TB, path string, lines ...string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create shard dir: %v", err)
	}
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write shard %s: %v", path, err)
	}
	return path
}

// VideoLine renders one video-level shard record.
func VideoLine(id string, features []float64, labels []int) string {
	return recordLine(map[string]any{"id": id, "features": features, "labels": labels})
}

// FrameLine renders one frame-level shard record.
func FrameLine(id string, frames [][]float64, labels []int) string {
	return recordLine(map[string]any{"id": id, "frames": frames, "labels": labels})
}

func recordLine(record map[string]any) string {
	data, err := json.Marshal(record)
	if err != nil {
		panic(fmt.Sprintf("marshal shard record: %v", err))
	}
	return string(data)
}

// WriteCheckpoint writes a model checkpoint file with the given weight matrix
// and bias vector. Weights are indexed [class][feature].
func WriteCheckpoint(t testing.TB, path, model string, weights [][]float64, bias []float64) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create checkpoint dir: %v", err)
	}
	payload := map[string]any{
		"model":       model,
		"num_classes": len(weights),
		"feature_dim": featureDim(weights),
		"weights":     weights,
		"bias":        bias,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		t.Fatalf("marshal checkpoint: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write checkpoint %s: %v", path, err)
	}
	return path
}

func featureDim(weights [][]float64) int {
	if len(weights) == 0 {
		return 0
	}
	return len(weights[0])
}
