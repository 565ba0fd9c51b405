package dataset

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// shardRecord is the wire form of one example line.
type shardRecord struct {
	ID       string      `json:"id"`
	Features []float32   `json:"features,omitempty"`
	Frames   [][]float32 `json:"frames,omitempty"`
	Labels   []int       `json:"labels"`
}

// Decoder turns shard files into Examples. FrameLevel selects between the
// whole-video and per-frame record shapes; a shard of the wrong shape yields
// only skipped records.
//
// Decode-error policy: a malformed line is skipped and counted, never fatal.
// Failing a long scoring run on a single corrupt record gives the operator
// nothing actionable; the skip total is reported in the run summary instead.
type Decoder struct {
	FrameLevel bool
}

// DecodeFile reads one shard sequentially, calling emit for every decoded
// Example in file order. It returns the number of malformed records skipped.
// I/O errors (unreadable file, truncated compression stream) are fatal and
// returned as errors; emit errors abort the file immediately.
func (d *Decoder) DecodeFile(ctx context.Context, path string, emit func(Example) error) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open shard: %w", err)
	}
	defer file.Close()

	reader, closeReader, err := wrapCompression(file, path)
	if err != nil {
		return 0, fmt.Errorf("open shard %s: %w", path, err)
	}
	defer closeReader()

	skipped := 0
	buf := bufio.NewReaderSize(reader, 1<<20)
	for {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		line, readErr := buf.ReadBytes('\n')
		if len(line) > 0 {
			example, ok := d.decodeLine(line)
			if !ok {
				skipped++
			} else if err := emit(example); err != nil {
				return skipped, err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return skipped, nil
			}
			return skipped, fmt.Errorf("read shard %s: %w", path, readErr)
		}
	}
}

func (d *Decoder) decodeLine(line []byte) (Example, bool) {
	var rec shardRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return Example{}, false
	}
	if rec.ID == "" {
		return Example{}, false
	}
	for _, label := range rec.Labels {
		if label < 0 {
			return Example{}, false
		}
	}

	labels := append([]int(nil), rec.Labels...)
	sort.Ints(labels)

	if d.FrameLevel {
		if len(rec.Frames) == 0 {
			return Example{}, false
		}
		dim := len(rec.Frames[0])
		if dim == 0 {
			return Example{}, false
		}
		for _, frame := range rec.Frames {
			if len(frame) != dim {
				return Example{}, false
			}
		}
		return Example{
			ID:         rec.ID,
			Frames:     rec.Frames,
			Labels:     labels,
			FrameCount: len(rec.Frames),
		}, true
	}

	if len(rec.Features) == 0 {
		return Example{}, false
	}
	return Example{
		ID:       rec.ID,
		Features: rec.Features,
		Labels:   labels,
	}, true
}

func wrapCompression(file *os.File, path string) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case ".zst":
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return file, func() {}, nil
	}
}
