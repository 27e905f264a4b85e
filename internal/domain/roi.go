package domain

import (
	"fmt"

	"github.com/ctessum/geom"
)

// BoundingBox is a geographic region of interest in WGS84 degrees.
type BoundingBox struct {
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64
}

// Contains reports whether the lon/lat point is inside the box, edges
// inclusive.
func (b BoundingBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// geographicProj is the lon/lat spatial reference shared by all Clip calls.
const geographicProj = "+proj=longlat"

// Clip restricts the frame to the region of interest. The native grid is not
// axis-aligned in longitude/latitude, so every cell center is reprojected to
// geographic coordinates and tested against the box; a rectangular slice in
// native X/Y alone would cut the wrong cells.
//
// Inclusion rule: a cell belongs to the region when its center falls inside
// the box, edges inclusive. The result is the minimal row/column envelope
// covering all such centers, so a few near-corner cells whose centers are
// outside may survive; the envelope keeps the raster rectangular for
// downstream labeling.
//
// A box matching no cell yields an empty frame, not an error.
func (f *RadarFrame) Clip(box BoundingBox) (*RadarFrame, error) {
	if f.Empty() {
		return f, nil
	}
	sr, err := f.Projection.SR()
	if err != nil {
		return nil, err
	}
	geoSR, err := srCache.parse(geographicProj)
	if err != nil {
		return nil, err
	}
	toGeo, err := sr.NewTransform(geoSR)
	if err != nil {
		return nil, fmt.Errorf("building geographic transform: %w", err)
	}

	rows, cols := f.Grid.Rows(), f.Grid.Cols()
	minRow, maxRow := rows, -1
	minCol, maxCol := cols, -1
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g, err := geom.Point{X: f.Grid.X[j], Y: f.Grid.Y[i]}.Transform(toGeo)
			if err != nil {
				return nil, fmt.Errorf("reprojecting cell (%d,%d): %w", i, j, err)
			}
			p := g.(geom.Point)
			if !box.Contains(p.X, p.Y) {
				continue
			}
			if i < minRow {
				minRow = i
			}
			if i > maxRow {
				maxRow = i
			}
			if j < minCol {
				minCol = j
			}
			if j > maxCol {
				maxCol = j
			}
		}
	}
	if maxRow < 0 {
		return f.subframe(0, 0, 0, 0), nil
	}
	return f.subframe(minRow, maxRow+1, minCol, maxCol+1), nil
}

// subframe copies the [r0,r1) x [c0,c1) window into a new frame with the
// same timestamp, window, and projection.
func (f *RadarFrame) subframe(r0, r1, c0, c1 int) *RadarFrame {
	return &RadarFrame{
		Timestamp: f.Timestamp,
		Window:    f.Window,
		Grid: Grid{
			X: append([]float64(nil), f.Grid.X[c0:c1]...),
			Y: append([]float64(nil), f.Grid.Y[r0:r1]...),
		},
		Projection:   f.Projection,
		Accumulation: f.Accumulation.slice(r0, r1, c0, c1),
		Quality:      f.Quality.slice(r0, r1, c0, c1),
		SourcePath:   f.SourcePath,
	}
}
