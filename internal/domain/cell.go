package domain

import (
	"sort"
	"time"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Pixel is a grid index pair, row-major.
type Pixel struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// CellStats summarizes accumulation over a cell's pixels, in millimeters.
type CellStats struct {
	MeanMM float64 `json:"mean_mm"`
	MaxMM  float64 `json:"max_mm"`
}

// PrecipitationCell is one maximal 8-connected region of above-threshold,
// quality-passing precipitation in a single frame. Ids are frame-local scan
// order; only a tracker can make them stable across frames. The cell holds
// the parent frame's timestamp by value, never a reference to frame state.
type PrecipitationCell struct {
	ID        int        `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Pixels    []Pixel    `json:"pixels"`
	Centroid  geom.Point `json:"centroid"` // native projection meters
	Area      int        `json:"area"`     // pixel count
	Stats     CellStats  `json:"intensity"`
}

// ExtractOptions tunes cell extraction. MinPixels discards components with
// fewer pixels before ids are assigned, filtering sub-resolution noise; zero
// disables the filter.
type ExtractOptions struct {
	MinPixels int
}

// neighbors8: diagonal contact joins cells.
var neighbors8 = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// ExtractCells labels the connected components of m and attributes each with
// geometry and intensity statistics from the parent frame. Components are
// discovered in row-major scan order (top-to-bottom, left-to-right) and
// numbered from 1, so identical input always yields identical cells. Every
// set pixel belongs to exactly one component.
func ExtractCells(m *BinaryMap, f *RadarFrame, opts ExtractOptions) []PrecipitationCell {
	visited := make([]bool, len(m.Bits))
	var cells []PrecipitationCell

	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			k := i*m.Cols + j
			if !m.Bits[k] || visited[k] {
				continue
			}
			pixels := flood(m, visited, i, j)
			if opts.MinPixels > 0 && len(pixels) < opts.MinPixels {
				continue
			}
			cells = append(cells, attributeCell(len(cells)+1, pixels, f))
		}
	}
	return cells
}

// flood collects the 8-connected component containing (i, j), returning its
// pixels in scan order.
func flood(m *BinaryMap, visited []bool, i, j int) []Pixel {
	visited[i*m.Cols+j] = true
	stack := []Pixel{{Row: i, Col: j}}
	var pixels []Pixel
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pixels = append(pixels, p)
		for _, d := range neighbors8 {
			ni, nj := p.Row+d[0], p.Col+d[1]
			if ni < 0 || ni >= m.Rows || nj < 0 || nj >= m.Cols {
				continue
			}
			nk := ni*m.Cols + nj
			if !m.Bits[nk] || visited[nk] {
				continue
			}
			visited[nk] = true
			stack = append(stack, Pixel{Row: ni, Col: nj})
		}
	}
	sort.Slice(pixels, func(a, b int) bool {
		if pixels[a].Row != pixels[b].Row {
			return pixels[a].Row < pixels[b].Row
		}
		return pixels[a].Col < pixels[b].Col
	})
	return pixels
}

// attributeCell computes centroid and intensity summary for one component.
// Accumulation is stored in hundredths of a millimeter; statistics are
// reported in mm. The centroid is the arithmetic mean of member-pixel native
// coordinates.
func attributeCell(id int, pixels []Pixel, f *RadarFrame) PrecipitationCell {
	xs := make([]float64, len(pixels))
	ys := make([]float64, len(pixels))
	mm := make([]float64, len(pixels))
	for n, p := range pixels {
		xs[n] = f.Grid.X[p.Col]
		ys[n] = f.Grid.Y[p.Row]
		if v, ok := f.Accumulation.At(p.Row, p.Col); ok {
			mm[n] = v / 100.0
		}
	}
	return PrecipitationCell{
		ID:        id,
		Timestamp: f.Timestamp,
		Pixels:    pixels,
		Centroid:  geom.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)},
		Area:      len(pixels),
		Stats:     CellStats{MeanMM: stat.Mean(mm, nil), MaxMM: floats.Max(mm)},
	}
}
