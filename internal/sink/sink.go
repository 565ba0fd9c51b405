// Package sink streams metric records to the output file. The file starts
// with a fixed header line kept for compatibility with downstream tooling;
// body lines are tab-separated. Writes are buffered and flushed per batch so
// an aborted run leaves a readable, if incomplete, file.
package sink

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"rankeval/internal/metric"
)

// Header is the fixed first line of every output file.
const Header = "VideoId,LabelConfidencePairs"

// Writer appends metric records to the output destination.
type Writer struct {
	file   *os.File
	buf    *bufio.Writer
	closed bool
}

// Open creates or truncates the destination file and writes the header.
func Open(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	buf := bufio.NewWriter(file)
	if _, err := buf.WriteString(Header + "\n"); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Writer{file: file, buf: buf}, nil
}

// WriteRecords appends one line per record in order.
func (w *Writer) WriteRecords(records []metric.Record) error {
	for _, rec := range records {
		if _, err := w.buf.WriteString(rec.VideoID); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := w.buf.WriteByte('\t'); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if _, err := w.buf.WriteString(strconv.FormatFloat(rec.Score, 'g', -1, 64)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := w.buf.WriteByte('\n'); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

// Flush pushes buffered lines to the file.
func (w *Writer) Flush() error {
	if w.closed {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// Close flushes and closes the file. It is safe to call more than once; only
// the first call does any work, so abnormal-termination paths can close
// unconditionally.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return fmt.Errorf("flush output: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close output: %w", closeErr)
	}
	return nil
}
