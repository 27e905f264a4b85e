package netcdf

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func touchComposite(t *testing.T, base string, ts time.Time) string {
	t.Helper()
	path := CompositePath(base, ts)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	return path
}

func TestCompositePath(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 5, 0, 0, time.UTC)
	got := CompositePath("/data/radar", ts)
	want := filepath.Join("/data/radar", "202608", "20260825", "cumul_france_1536-1km-5min_202608251205.nc")
	assert.Equal(t, want, got)
}

func TestCompositePathCrossesDayBoundary(t *testing.T) {
	ts := time.Date(2026, 8, 31, 23, 55, 0, 0, time.UTC)
	assert.Contains(t, CompositePath("/d", ts), filepath.Join("202608", "20260831"))

	ts = ts.Add(5 * time.Minute)
	assert.Contains(t, CompositePath("/d", ts), filepath.Join("202609", "20260901"))
}

func TestLocate(t *testing.T) {
	base := t.TempDir()
	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("skips missing candidates and stays sorted", func(t *testing.T) {
		p0 := touchComposite(t, base, start)
		// 12:05 intentionally absent.
		p2 := touchComposite(t, base, start.Add(10*time.Minute))
		p3 := touchComposite(t, base, start.Add(15*time.Minute))

		refs, err := Locate(base, start, start.Add(15*time.Minute), 5*time.Minute, discardLogger())
		require.NoError(t, err)
		require.Len(t, refs, 3)
		assert.Equal(t, p0, refs[0].Path)
		assert.Equal(t, p2, refs[1].Path)
		assert.Equal(t, p3, refs[2].Path)
		assert.Equal(t, start, refs[0].Timestamp)
		assert.Equal(t, start.Add(10*time.Minute), refs[1].Timestamp)
	})

	t.Run("window end is inclusive", func(t *testing.T) {
		refs, err := Locate(base, start, start, 5*time.Minute, discardLogger())
		require.NoError(t, err)
		assert.Len(t, refs, 1)
	})

	t.Run("empty window is ErrNoData", func(t *testing.T) {
		_, err := Locate(t.TempDir(), start, start.Add(time.Hour), 5*time.Minute, discardLogger())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoData)
	})

	t.Run("non-positive step is rejected", func(t *testing.T) {
		_, err := Locate(base, start, start.Add(time.Hour), 0, discardLogger())
		assert.Error(t, err)
	})
}
