package netcdf

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

func testSpec(ts time.Time) CompositeSpec {
	return CompositeSpec{
		Timestamp:  ts,
		X:          []float64{763000, 764000, 765000},
		Y:          []float64{-4334000, -4333000},
		ACRR:       []float64{1, 2, 3, 4, 5, 6},
		Quality:    []float64{90, 91, 92, 93, 94, 95},
		Projection: domain.DefaultProjection(),
	}
}

func writeTestComposite(t *testing.T, spec CompositeSpec) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "composite.nc")
	require.NoError(t, WriteComposite(path, spec))
	return path
}

func TestReadCompositeRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	path := writeTestComposite(t, testSpec(ts))

	frame, err := ReadComposite(path)
	require.NoError(t, err)

	assert.Equal(t, ts, frame.Timestamp)
	assert.Equal(t, 5*time.Minute, frame.Window)
	assert.Equal(t, path, frame.SourcePath)
	assert.Equal(t, 2, frame.Grid.Rows())
	assert.Equal(t, 3, frame.Grid.Cols())
	assert.Equal(t, []float64{763000, 764000, 765000}, frame.Grid.X)
	assert.Equal(t, domain.DefaultProjection(), frame.Projection)

	// Flat data [[1,2,3],[4,5,6]] lands row-major.
	v, ok := frame.Accumulation.At(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	v, _ = frame.Accumulation.At(0, 2)
	assert.Equal(t, 3.0, v)
	v, _ = frame.Accumulation.At(1, 0)
	assert.Equal(t, 4.0, v)
	v, _ = frame.Accumulation.At(1, 2)
	assert.Equal(t, 6.0, v)
	v, _ = frame.Quality.At(1, 1)
	assert.Equal(t, 94.0, v)
}

func TestReadCompositeMissingValues(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	spec := testSpec(ts)
	acrrMissing, qualMissing := 65535.0, 255.0
	spec.ACRR = []float64{65535, 2, 3, 4, 255, 6}
	spec.Quality = []float64{90, 255, 92, 93, 94, 65535}
	spec.ACRRMissing = &acrrMissing
	spec.QualityMissing = &qualMissing
	path := writeTestComposite(t, spec)

	frame, err := ReadComposite(path)
	require.NoError(t, err)

	_, ok := frame.Accumulation.At(0, 0)
	assert.False(t, ok, "ACRR sentinel is null")
	v, ok := frame.Accumulation.At(1, 1)
	assert.True(t, ok, "QUALITY sentinel is plain ACRR data")
	assert.Equal(t, 255.0, v)

	_, ok = frame.Quality.At(0, 1)
	assert.False(t, ok, "QUALITY sentinel is null")
	v, ok = frame.Quality.At(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 65535.0, v)
}

func TestReadCompositeNonDefaultProjection(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	spec := testSpec(ts)
	spec.Projection = domain.ProjectionDescriptor{
		LatitudeOfOrigin: 90,
		CentralLongitude: 10,
		StandardParallel: 60,
		FalseEasting:     500000,
		FalseNorthing:    -100000,
	}
	path := writeTestComposite(t, spec)

	frame, err := ReadComposite(path)
	require.NoError(t, err)
	assert.Equal(t, spec.Projection, frame.Projection)
}

func TestReadCompositeShapeMismatch(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	spec := testSpec(ts)
	spec.ACRR = []float64{1, 2, 3, 4, 5} // one short of 2x3
	path := writeTestComposite(t, spec)

	_, err := ReadComposite(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestReadCompositeMissingVariable(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	spec := testSpec(ts)
	spec.OmitQuality = true
	path := writeTestComposite(t, spec)

	_, err := ReadComposite(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingVariable)
}

func TestReadCompositeMissingGridMapping(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	spec := testSpec(ts)
	spec.OmitGridMapping = true
	path := writeTestComposite(t, spec)

	_, err := ReadComposite(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingGridMapping)
}

func TestReadCompositeAbsentFile(t *testing.T) {
	_, err := ReadComposite(filepath.Join(t.TempDir(), "nope.nc"))
	assert.Error(t, err)
}

func TestReaderReadFrame(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	path := writeTestComposite(t, testSpec(ts))

	frame, err := Reader{}.ReadFrame(t.Context(), domain.FrameRef{Path: path, Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, ts, frame.Timestamp)
}
