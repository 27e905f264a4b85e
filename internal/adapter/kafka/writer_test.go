package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

func TestSerializeFrameMessage(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 5, 0, 0, time.UTC)
	processed := time.Date(2026, 8, 25, 12, 7, 30, 0, time.UTC)

	res := domain.FrameResult{
		SourcePath: "/data/202608/20260825/cumul_france_1536-1km-5min_202608251205.nc",
		Timestamp:  ts,
		Projection: domain.DefaultProjection(),
		Proj4:      domain.DefaultProjection().Proj4(),
		GridRows:   4,
		GridCols:   6,
		Cells: []domain.PrecipitationCell{
			{
				ID:        1,
				Timestamp: ts,
				Pixels:    []domain.Pixel{{Row: 1, Col: 2}, {Row: 1, Col: 3}},
				Centroid:  geom.Point{X: 764500, Y: -4333000},
				Area:      2,
				Stats:     domain.CellStats{MeanMM: 1.5, MaxMM: 1.8},
			},
		},
		ProcessedAt: processed,
	}

	msg, err := serializeFrameMessage(res)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-25T12:05:00Z", string(msg.Key))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "cell_count", msg.Headers[0].Key)
	assert.Equal(t, "1", string(msg.Headers[0].Value))
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, "2026-08-25T12:07:30Z", string(msg.Headers[1].Value))

	var decoded domain.FrameResult
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, res.SourcePath, decoded.SourcePath)
	assert.Equal(t, res.Proj4, decoded.Proj4)
	require.Len(t, decoded.Cells, 1)
	assert.Equal(t, res.Cells[0].Pixels, decoded.Cells[0].Pixels)
	assert.Equal(t, res.Cells[0].Stats, decoded.Cells[0].Stats)
}

func TestSerializeFrameMessageEmptyFrame(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 5, 0, 0, time.UTC)
	msg, err := serializeFrameMessage(domain.FrameResult{Timestamp: ts})
	require.NoError(t, err)

	assert.Equal(t, "0", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Contains(t, decoded, "cells")
}

func TestNewWriterConfiguration(t *testing.T) {
	w := NewWriter([]string{"localhost:9092"}, "radar-precipitation-cells", slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close() //nolint:errcheck

	assert.Equal(t, "radar-precipitation-cells", w.writer.Topic)
	assert.NotNil(t, w.writer.Balancer)
}
