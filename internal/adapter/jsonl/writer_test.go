package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

func TestWriterOneLinePerFrame(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf)

	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		res := domain.FrameResult{
			Timestamp: ts.Add(time.Duration(i) * 5 * time.Minute),
			Cells:     []domain.PrecipitationCell{{ID: 1, Area: i + 1}},
		}
		require.NoError(t, w.LoadFrame(context.Background(), res))
	}

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		var res domain.FrameResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &res))
		require.Len(t, res.Cells, 1)
		assert.Equal(t, lines+1, res.Cells[0].Area)
		lines++
	}
	assert.Equal(t, 3, lines)
}

func TestWriterToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.LoadFrame(context.Background(), domain.FrameResult{SourcePath: "a.nc"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source_path":"a.nc"`)
}

func TestWriterStdout(t *testing.T) {
	for _, path := range []string{"", "-"} {
		w, err := NewWriter(path)
		require.NoError(t, err)
		assert.NoError(t, w.Close(), "closing a stdout writer must not close stdout")
	}
}

func TestWriterBadPath(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "missing", "cells.jsonl"))
	assert.Error(t, err)
}
