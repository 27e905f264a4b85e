package pipeline

import (
	"context"
	"log/slog"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

// CellTransformer implements Transformer: clip to the region of interest,
// quality-mask and binarize, then label precipitation cells.
type CellTransformer struct {
	box        domain.BoundingBox
	thresholds domain.Thresholds
	extract    domain.ExtractOptions
	logger     *slog.Logger
}

// NewTransformer creates a CellTransformer with the given region of
// interest, thresholds, and extraction options.
func NewTransformer(box domain.BoundingBox, thresholds domain.Thresholds, extract domain.ExtractOptions, logger *slog.Logger) *CellTransformer {
	return &CellTransformer{
		box:        box,
		thresholds: thresholds,
		extract:    extract,
		logger:     logger,
	}
}

func (t *CellTransformer) Transform(_ context.Context, frame *domain.RadarFrame) (domain.FrameResult, error) {
	clipped, err := frame.Clip(t.box)
	if err != nil {
		return domain.FrameResult{}, err
	}
	if clipped.Empty() {
		t.logger.Debug("region of interest outside frame extent", "path", frame.SourcePath)
		return domain.NewFrameResult(clipped, nil), nil
	}
	binary := clipped.Binarize(t.thresholds)
	cells := domain.ExtractCells(binary, clipped, t.extract)
	return domain.NewFrameResult(clipped, cells), nil
}
