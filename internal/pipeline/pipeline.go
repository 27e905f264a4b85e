package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
	"github.com/seghersnico/radar-cell-tracking/internal/observability"
)

// FrameReader materializes one located composite into a frame.
type FrameReader interface {
	ReadFrame(ctx context.Context, ref domain.FrameRef) (*domain.RadarFrame, error)
}

// Transformer turns a full frame into the per-frame cell result.
type Transformer interface {
	Transform(ctx context.Context, frame *domain.RadarFrame) (domain.FrameResult, error)
}

// Loader delivers a frame result to a sink.
type Loader interface {
	LoadFrame(ctx context.Context, res domain.FrameResult) error
}

// MultiLoader fans a frame result out to several sinks, stopping at the
// first failure.
type MultiLoader []Loader

func (m MultiLoader) LoadFrame(ctx context.Context, res domain.FrameResult) error {
	for _, l := range m {
		if err := l.LoadFrame(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// Pipeline runs the read-transform-load loop over a located batch of
// composites. Each file is processed fully before the next is opened, and
// frames share no mutable state.
type Pipeline struct {
	reader      FrameReader
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	strict      bool
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability. With
// strict set, the first per-file fatal error aborts the batch; otherwise
// failed files are logged and skipped.
func New(r FrameReader, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics, strict bool) *Pipeline {
	return &Pipeline{
		reader:      r,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		strict:      strict,
	}
}

// CheckReadiness returns nil once at least one frame has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any frames yet")
	}
	return nil
}

// Run processes refs ascending by timestamp, the order any future tracker
// must see. Loader failures always abort: every later frame would hit the
// same sink.
func (p *Pipeline) Run(ctx context.Context, refs []domain.FrameRef) error {
	sort.Slice(refs, func(i, j int) bool { return refs[i].Timestamp.Before(refs[j].Timestamp) })

	p.logger.Info("pipeline started", "frames", len(refs), "strict", p.strict)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline stopping", "reason", err)
			return nil
		}
		if err := p.processFrame(ctx, ref); err != nil {
			return err
		}
	}
	p.logger.Info("pipeline finished")
	return nil
}

func (p *Pipeline) processFrame(ctx context.Context, ref domain.FrameRef) error {
	start := time.Now()

	frame, err := p.reader.ReadFrame(ctx, ref)
	if err != nil {
		return p.frameError(ref, "frame unreadable", err)
	}

	res, err := p.transformer.Transform(ctx, frame)
	if err != nil {
		return p.frameError(ref, "frame transform failed", err)
	}

	if err := p.loader.LoadFrame(ctx, res); err != nil {
		return fmt.Errorf("load frame %s: %w", ref.Path, err)
	}

	p.ready.Store(true)
	p.metrics.FramesProcessed.Inc()
	p.metrics.CellsExtracted.Add(float64(len(res.Cells)))
	p.metrics.CellsPerFrame.Observe(float64(len(res.Cells)))
	p.metrics.FrameProcessingSeconds.Observe(time.Since(start).Seconds())

	if len(res.Cells) == 0 {
		p.metrics.EmptyFrames.Inc()
		p.logger.Info("no cells this time step", "path", ref.Path, "timestamp", res.Timestamp)
	} else {
		p.logger.Info("frame processed", "path", ref.Path, "timestamp", res.Timestamp, "cells", len(res.Cells))
	}
	return nil
}

// frameError applies the batch policy to a per-file fatal error: abort in
// strict mode, otherwise count, log with path context, and skip.
func (p *Pipeline) frameError(ref domain.FrameRef, msg string, err error) error {
	p.metrics.FrameErrors.Inc()
	if p.strict {
		return fmt.Errorf("%s %s: %w", msg, ref.Path, err)
	}
	p.logger.Error(msg+", skipping", "path", ref.Path, "error", err)
	return nil
}
