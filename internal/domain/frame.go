package domain

import (
	"fmt"
	"time"

	"github.com/ctessum/sparse"
)

// FrameRef points at one composite file on disk. The timestamp is the start
// of the accumulation interval, derived from the file name.
type FrameRef struct {
	Path      string
	Timestamp time.Time
}

// Grid describes a frame's spatial extent: ordered native X (column) and Y
// (row) center coordinates in projection meters. Spacing is not assumed
// uniform.
type Grid struct {
	X []float64
	Y []float64
}

func (g Grid) Rows() int { return len(g.Y) }
func (g Grid) Cols() int { return len(g.X) }

// Size is the number of grid cells, rows x cols.
func (g Grid) Size() int { return len(g.X) * len(g.Y) }

// Layer is one 2D variable of a frame. Values has shape [rows, cols]; Valid
// is row-major with one flag per element, false where the source carried its
// missing-value sentinel. The sentinel is resolved here, once, and never
// re-interpreted downstream.
type Layer struct {
	Values *sparse.DenseArray
	Valid  []bool
}

// NewLayer reshapes a flat row-major (Y-major) array into a rows x cols
// layer: element k maps to row k/cols, column k%cols. The reshape is
// shape-checked, never inferred. missing, when non-nil, is the sentinel
// translated into Valid=false.
func NewLayer(flat []float64, rows, cols int, missing *float64) (Layer, error) {
	if len(flat) != rows*cols {
		return Layer{}, fmt.Errorf("%w: %d values for %dx%d grid", ErrShapeMismatch, len(flat), rows, cols)
	}
	values := sparse.ZerosDense(rows, cols)
	valid := make([]bool, len(flat))
	for k, v := range flat {
		values.Elements[k] = v
		valid[k] = missing == nil || v != *missing
	}
	return Layer{Values: values, Valid: valid}, nil
}

// At returns the value at row i, column j and whether it is non-null.
func (l Layer) At(i, j int) (float64, bool) {
	k := i*l.Values.Shape[1] + j
	return l.Values.Elements[k], l.Valid[k]
}

// slice copies the [r0,r1) x [c0,c1) window into a new layer.
func (l Layer) slice(r0, r1, c0, c1 int) Layer {
	rows, cols := r1-r0, c1-c0
	out := Layer{Values: sparse.ZerosDense(rows, cols), Valid: make([]bool, rows*cols)}
	srcCols := l.Values.Shape[1]
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sk := (r0+i)*srcCols + c0 + j
			dk := i*cols + j
			out.Values.Elements[dk] = l.Values.Elements[sk]
			out.Valid[dk] = l.Valid[sk]
		}
	}
	return out
}

// RadarFrame is one time step of composite data: an accumulation layer and a
// quality layer sharing a polar-stereographic grid. Frames are immutable
// after construction; the singleton time axis of the source file is carried
// as Timestamp.
type RadarFrame struct {
	Timestamp    time.Time
	Window       time.Duration // length of the accumulation interval
	Grid         Grid
	Projection   ProjectionDescriptor
	Accumulation Layer // hundredths of a millimeter
	Quality      Layer // 0-100
	SourcePath   string
}

// NewFrame builds a frame from flat row-major variable arrays, shape-checking
// both against the coordinate vectors. acrrMissing and qualityMissing are the
// per-variable missing-value sentinels; the two are independent.
func NewFrame(ts time.Time, window time.Duration, grid Grid, proj ProjectionDescriptor,
	acrr, quality []float64, acrrMissing, qualityMissing *float64) (*RadarFrame, error) {

	if len(acrr) != grid.Size() || len(quality) != grid.Size() {
		return nil, fmt.Errorf("%w: ACRR has %d values, QUALITY %d, grid is %dx%d",
			ErrShapeMismatch, len(acrr), len(quality), grid.Rows(), grid.Cols())
	}
	acc, err := NewLayer(acrr, grid.Rows(), grid.Cols(), acrrMissing)
	if err != nil {
		return nil, fmt.Errorf("ACRR: %w", err)
	}
	qual, err := NewLayer(quality, grid.Rows(), grid.Cols(), qualityMissing)
	if err != nil {
		return nil, fmt.Errorf("QUALITY: %w", err)
	}
	return &RadarFrame{
		Timestamp:    ts,
		Window:       window,
		Grid:         grid,
		Projection:   proj,
		Accumulation: acc,
		Quality:      qual,
	}, nil
}

// Empty reports whether the frame has no grid cells, e.g. a region-of-interest
// clip that matched nothing. Empty frames mean "no cells this time step",
// never an error.
func (f *RadarFrame) Empty() bool { return f.Grid.Size() == 0 }
