// Package jsonl writes frame results as newline-delimited JSON, the local
// counterpart of the Kafka sink.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

// Writer appends one JSON record per frame. It implements pipeline.Loader.
type Writer struct {
	enc     *json.Encoder
	closeFn func() error
}

// NewWriter opens path for writing; "-" or an empty path means stdout.
func NewWriter(path string) (*Writer, error) {
	if path == "" || path == "-" {
		return &Writer{enc: json.NewEncoder(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	return &Writer{enc: json.NewEncoder(f), closeFn: f.Close}, nil
}

// NewWriterTo wraps an existing writer, used by tests.
func NewWriterTo(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

func (w *Writer) LoadFrame(_ context.Context, res domain.FrameResult) error {
	if err := w.enc.Encode(res); err != nil {
		return fmt.Errorf("encode frame result: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w.closeFn != nil {
		return w.closeFn()
	}
	return nil
}
