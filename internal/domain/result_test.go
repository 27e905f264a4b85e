package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNewFrameResult(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 7, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	f := alpineFrame(t, 2, 3, uniform(6, 0), uniform(6, 100))
	cells := []PrecipitationCell{{ID: 1, Area: 2}}

	res := NewFrameResult(f, cells)

	assert.Equal(t, f.Timestamp, res.Timestamp)
	assert.Equal(t, f.Projection, res.Projection)
	assert.Equal(t, f.Projection.Proj4(), res.Proj4)
	assert.Equal(t, 2, res.GridRows)
	assert.Equal(t, 3, res.GridCols)
	assert.Equal(t, cells, res.Cells)
	assert.Equal(t, now, res.ProcessedAt)
}

func TestNewFrameResultEmptyFrame(t *testing.T) {
	res := NewFrameResult(&RadarFrame{Projection: DefaultProjection()}, nil)
	assert.Zero(t, res.GridRows)
	assert.Zero(t, res.GridCols)
	assert.Empty(t, res.Cells)
}
