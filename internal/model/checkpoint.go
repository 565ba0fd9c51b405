package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrCheckpointNotFound indicates no usable checkpoint exists at the
// configured location. There is no partial or degraded mode; this is fatal.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Checkpoint holds restored model parameters. Contents are immutable for the
// duration of a run.
type Checkpoint struct {
	Model      string      `json:"model"`
	NumClasses int         `json:"num_classes"`
	FeatureDim int         `json:"feature_dim"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`

	// Path records where the checkpoint was loaded from.
	Path string `json:"-"`
}

// Restore loads and validates a checkpoint file.
func Restore(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, path)
		}
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var ckpt Checkpoint
	if err := json.Unmarshal(data, &ckpt); err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", path, err)
	}
	ckpt.Path = path

	if err := ckpt.validate(); err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", path, err)
	}
	return &ckpt, nil
}

// RestoreLatest restores the newest checkpoint in a directory. Checkpoints
// are named checkpoint-<n>.json; the highest n wins, with modification time
// as the fallback when no file carries a numeric suffix.
func RestoreLatest(dir string) (*Checkpoint, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "checkpoint-*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan checkpoint directory: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no checkpoint-*.json in %s", ErrCheckpointNotFound, dir)
	}
	sort.Slice(matches, func(i, j int) bool {
		ni, iOK := checkpointNumber(matches[i])
		nj, jOK := checkpointNumber(matches[j])
		if iOK && jOK {
			return ni < nj
		}
		if iOK != jOK {
			return jOK
		}
		return modTime(matches[i]) < modTime(matches[j])
	})
	return Restore(matches[len(matches)-1])
}

func (c *Checkpoint) validate() error {
	if c.NumClasses < 1 {
		return errors.New("num_classes must be positive")
	}
	if c.FeatureDim < 1 {
		return errors.New("feature_dim must be positive")
	}
	if len(c.Weights) != c.NumClasses {
		return fmt.Errorf("weights have %d rows, expected %d", len(c.Weights), c.NumClasses)
	}
	for i, row := range c.Weights {
		if len(row) != c.FeatureDim {
			return fmt.Errorf("weights row %d has %d columns, expected %d", i, len(row), c.FeatureDim)
		}
	}
	if len(c.Bias) != 0 && len(c.Bias) != c.NumClasses {
		return fmt.Errorf("bias has %d entries, expected %d", len(c.Bias), c.NumClasses)
	}
	return nil
}

func checkpointNumber(path string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	suffix := strings.TrimPrefix(base, "checkpoint-")
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

func modTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}
