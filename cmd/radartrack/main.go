// Command radartrack extracts precipitation cells from 5-minute radar
// composites.
//
//	radartrack run              process a time window and emit cell results
//	radartrack inspect FILE...  print composite metadata without processing
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	httpadapter "github.com/seghersnico/radar-cell-tracking/internal/adapter/http"
	"github.com/seghersnico/radar-cell-tracking/internal/adapter/jsonl"
	kafkaadapter "github.com/seghersnico/radar-cell-tracking/internal/adapter/kafka"
	"github.com/seghersnico/radar-cell-tracking/internal/config"
	"github.com/seghersnico/radar-cell-tracking/internal/domain"
	"github.com/seghersnico/radar-cell-tracking/internal/netcdf"
	"github.com/seghersnico/radar-cell-tracking/internal/observability"
	"github.com/seghersnico/radar-cell-tracking/internal/pipeline"
)

func main() {
	root := &cobra.Command{
		Use:           "radartrack",
		Short:         "Precipitation cell extraction from radar composites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newInspectCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process a time window of composites and emit cell results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd.Context())
		},
	}
}

func runBatch(parent context.Context) error {
	// Local .env overrides are optional; the environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refs, err := netcdf.Locate(cfg.DataDir, cfg.WindowStart, cfg.WindowEnd, cfg.Step(), logger)
	if err != nil {
		logger.Error("no composites in window", "error", err, "start", cfg.WindowStart, "end", cfg.WindowEnd)
		return err
	}

	sink, err := jsonl.NewWriter(cfg.OutputPath)
	if err != nil {
		logger.Error("failed to open output", "error", err)
		return err
	}

	loaders := pipeline.MultiLoader{sink}

	var kafkaSink *kafkaadapter.Writer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		loaders = append(loaders, kafkaSink)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	transformer := pipeline.NewTransformer(
		domain.BoundingBox{
			MinLon: cfg.ROIMinLon,
			MaxLon: cfg.ROIMaxLon,
			MinLat: cfg.ROIMinLat,
			MaxLat: cfg.ROIMaxLat,
		},
		domain.Thresholds{Quality: cfg.QualityThreshold, Precip: cfg.PrecipThreshold},
		domain.ExtractOptions{MinPixels: cfg.MinCellPixels},
		logger,
	)

	p := pipeline.New(&netcdf.Reader{}, transformer, loaders, logger, metrics, cfg.Strict)

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx, refs)
	stop()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if err := sink.Close(); err != nil {
		logger.Error("output close error", "error", err)
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
		return runErr
	}
	logger.Info("run complete")
	return nil
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print composite metadata without processing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := inspectComposite(cmd.OutOrStdout(), path); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
}

func inspectComposite(out io.Writer, path string) error {
	frame, err := netcdf.ReadComposite(path)
	if err != nil {
		return err
	}

	valid := 0
	for _, ok := range frame.Accumulation.Valid {
		if ok {
			valid++
		}
	}

	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  timestamp:  %s\n", frame.Timestamp.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(out, "  window:     %s\n", frame.Window)
	fmt.Fprintf(out, "  grid:       %d x %d\n", frame.Grid.Rows(), frame.Grid.Cols())
	fmt.Fprintf(out, "  projection: %s\n", frame.Projection.Proj4())
	fmt.Fprintf(out, "  valid:      %d/%d pixels\n", valid, frame.Grid.Size())
	return nil
}
