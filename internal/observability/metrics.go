package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments for the extraction pipeline.
type Metrics struct {
	FramesProcessed prometheus.Counter
	FrameErrors     prometheus.Counter
	EmptyFrames     prometheus.Counter
	CellsExtracted  prometheus.Counter
	PipelineRunning prometheus.Gauge

	CellsPerFrame          prometheus.Histogram
	FrameProcessingSeconds prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radartrack",
			Name:      "frames_processed_total",
			Help:      "Composite frames read, transformed, and loaded.",
		}),
		FrameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radartrack",
			Name:      "frame_errors_total",
			Help:      "Per-file fatal errors (unreadable or malformed composites).",
		}),
		EmptyFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radartrack",
			Name:      "empty_frames_total",
			Help:      "Frames that yielded zero precipitation cells.",
		}),
		CellsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radartrack",
			Name:      "cells_extracted_total",
			Help:      "Precipitation cells emitted across all frames.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "radartrack",
			Name:      "pipeline_running",
			Help:      "1 while the batch is active, 0 otherwise.",
		}),
		CellsPerFrame: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "radartrack",
			Name:      "cells_per_frame",
			Help:      "Precipitation cells per processed frame.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		}),
		FrameProcessingSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "radartrack",
			Name:      "frame_processing_duration_seconds",
			Help:      "Duration of a complete read-clip-extract-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	prometheus.MustRegister(
		m.FramesProcessed,
		m.FrameErrors,
		m.EmptyFrames,
		m.CellsExtracted,
		m.PipelineRunning,
		m.CellsPerFrame,
		m.FrameProcessingSeconds,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FramesProcessed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radartrack", Name: "frames_processed_total"}),
		FrameErrors:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radartrack", Name: "frame_errors_total"}),
		EmptyFrames:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radartrack", Name: "empty_frames_total"}),
		CellsExtracted:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radartrack", Name: "cells_extracted_total"}),
		PipelineRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "radartrack", Name: "pipeline_running"}),
		CellsPerFrame:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "radartrack", Name: "cells_per_frame"}),
		FrameProcessingSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "radartrack", Name: "frame_processing_duration_seconds"}),
	}
}
