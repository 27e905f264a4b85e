package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/ctessum/sparse"
)

// SumFrames combines consecutive frames into one longer accumulation window:
// accumulation sums per pixel, quality takes the per-pixel minimum, the
// window is the sum of the input windows. All frames must share grid shape
// and projection. An output pixel is null when the pixel is null in any
// input; windows longer than LongWindowThreshold then get the null-to-zero
// substitution at binarization, matching the dataset's encoding of long
// windows.
func SumFrames(frames []*RadarFrame) (*RadarFrame, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to aggregate")
	}
	first := frames[0]
	rows, cols := first.Grid.Rows(), first.Grid.Cols()
	size := first.Grid.Size()

	acc := Layer{Values: sparse.ZerosDense(rows, cols), Valid: make([]bool, size)}
	qual := Layer{Values: sparse.ZerosDense(rows, cols), Valid: make([]bool, size)}
	for k := 0; k < size; k++ {
		acc.Valid[k] = true
		qual.Valid[k] = true
		qual.Values.Elements[k] = 100
	}

	var window time.Duration
	for _, f := range frames {
		if f.Grid.Rows() != rows || f.Grid.Cols() != cols {
			return nil, fmt.Errorf("%w: frame %s is %dx%d, expected %dx%d", ErrShapeMismatch,
				f.Timestamp.Format(time.RFC3339), f.Grid.Rows(), f.Grid.Cols(), rows, cols)
		}
		if f.Projection != first.Projection {
			return nil, fmt.Errorf("aggregating frames with different projections: %s vs %s",
				f.Projection.Proj4(), first.Projection.Proj4())
		}
		window += f.Window
		for k := 0; k < size; k++ {
			if !f.Accumulation.Valid[k] {
				acc.Valid[k] = false
			} else if acc.Valid[k] {
				acc.Values.Elements[k] += f.Accumulation.Values.Elements[k]
			}
			if !f.Quality.Valid[k] {
				qual.Valid[k] = false
			} else if v := f.Quality.Values.Elements[k]; v < qual.Values.Elements[k] {
				qual.Values.Elements[k] = v
			}
		}
	}

	return &RadarFrame{
		Timestamp:    first.Timestamp,
		Window:       window,
		Grid:         first.Grid,
		Projection:   first.Projection,
		Accumulation: acc,
		Quality:      qual,
		SourcePath:   first.SourcePath,
	}, nil
}
