package domain

import "time"

// LongWindowThreshold is the accumulation window beyond which the dataset
// encodes "no measurable rain" with the missing-value sentinel instead of
// zero. Frames aggregated past this length treat null accumulation as 0
// before thresholding; individual 5-minute frames are unaffected.
const LongWindowThreshold = 15 * time.Minute

// Thresholds select precipitation pixels.
type Thresholds struct {
	Quality int // minimum quality code, 0-100
	Precip  int // minimum accumulation, hundredths of a millimeter
}

// BinaryMap is a boolean precipitation/no-precipitation raster.
type BinaryMap struct {
	Rows, Cols int
	Bits       []bool // row-major
}

// At returns the bit at row i, column j.
func (m *BinaryMap) At(i, j int) bool { return m.Bits[i*m.Cols+j] }

// Binarize masks out low-quality pixels and thresholds the accumulation
// layer. A pixel is set iff its quality is non-null and >= t.Quality and its
// accumulation is non-null and >= t.Precip. Pure function of its inputs.
func (f *RadarFrame) Binarize(t Thresholds) *BinaryMap {
	rows, cols := f.Grid.Rows(), f.Grid.Cols()
	m := &BinaryMap{Rows: rows, Cols: cols, Bits: make([]bool, rows*cols)}
	longWindow := f.Window > LongWindowThreshold
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			q, qok := f.Quality.At(i, j)
			if !qok || int(q) < t.Quality {
				continue
			}
			a, aok := f.Accumulation.At(i, j)
			if !aok {
				if !longWindow {
					continue
				}
				a = 0
			}
			if int(a) >= t.Precip {
				m.Bits[i*cols+j] = true
			}
		}
	}
	return m
}
