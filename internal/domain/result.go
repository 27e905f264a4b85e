package domain

import "time"

// FrameResult is the per-frame output contract for downstream consumers: the
// future tracker and any renderer. It carries the resolved projection and
// its proj4 form so consumers can reproject without re-parsing source
// metadata. Results presented to a tracker must be sorted by timestamp
// ascending.
type FrameResult struct {
	SourcePath  string               `json:"source_path"`
	Timestamp   time.Time            `json:"timestamp"`
	Projection  ProjectionDescriptor `json:"projection"`
	Proj4       string               `json:"proj4"`
	GridRows    int                  `json:"grid_rows"`
	GridCols    int                  `json:"grid_cols"`
	Cells       []PrecipitationCell  `json:"cells"`
	ProcessedAt time.Time            `json:"processed_at"`
}

// NewFrameResult assembles the result for a clipped frame, stamped with the
// package clock.
func NewFrameResult(f *RadarFrame, cells []PrecipitationCell) FrameResult {
	return FrameResult{
		SourcePath:  f.SourcePath,
		Timestamp:   f.Timestamp,
		Projection:  f.Projection,
		Proj4:       f.Projection.Proj4(),
		GridRows:    f.Grid.Rows(),
		GridCols:    f.Grid.Cols(),
		Cells:       cells,
		ProcessedAt: clock.Now(),
	}
}
