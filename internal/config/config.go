package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// windowTimeLayout matches the compact timestamp in composite file names.
// RFC3339 is accepted as well.
const windowTimeLayout = "200601021504"

// Config holds all batch settings, populated from environment variables.
type Config struct {
	DataDir     string
	WindowStart time.Time
	WindowEnd   time.Time
	StepMinutes int

	QualityThreshold int // minimum quality code, 0-100
	PrecipThreshold  int // minimum accumulation, hundredths of a millimeter

	// Region of interest, WGS84 degrees. Defaults cover the Alpine region.
	ROIMinLon float64
	ROIMaxLon float64
	ROIMinLat float64
	ROIMaxLat float64

	MinCellPixels int  // 0 disables the noise filter
	Strict        bool // abort the batch on the first per-file fatal error

	OutputPath     string   // JSONL sink; "-" is stdout
	KafkaBrokers   []string // empty disables the Kafka sink
	KafkaSinkTopic string

	HTTPAddr        string // empty disables the metrics/health server
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	start, err := parseWindowTime(os.Getenv("WINDOW_START"))
	if err != nil {
		return nil, fmt.Errorf("invalid WINDOW_START: %w", err)
	}
	end, err := parseWindowTime(os.Getenv("WINDOW_END"))
	if err != nil {
		return nil, fmt.Errorf("invalid WINDOW_END: %w", err)
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:     os.Getenv("RADAR_DATA_DIR"),
		WindowStart: start,
		WindowEnd:   end,
		StepMinutes: envInt("STEP_MINUTES", 5),

		QualityThreshold: envInt("QUALITY_THRESHOLD", 60),
		PrecipThreshold:  envInt("PRECIP_THRESHOLD", 10),

		ROIMinLon: envFloat("ROI_MIN_LON", 4.5),
		ROIMaxLon: envFloat("ROI_MAX_LON", 16.5),
		ROIMinLat: envFloat("ROI_MIN_LAT", 43.0),
		ROIMaxLat: envFloat("ROI_MAX_LAT", 48.5),

		MinCellPixels: envInt("MIN_CELL_PIXELS", 0),
		Strict:        os.Getenv("STRICT") == "true",

		OutputPath:     envOrDefault("OUTPUT_PATH", "-"),
		KafkaBrokers:   splitBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "radar-precipitation-cells"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("RADAR_DATA_DIR is required")
	}
	if cfg.WindowStart.IsZero() || cfg.WindowEnd.IsZero() {
		return nil, errors.New("WINDOW_START and WINDOW_END are required")
	}
	if cfg.WindowEnd.Before(cfg.WindowStart) {
		return nil, errors.New("WINDOW_END is before WINDOW_START")
	}
	if cfg.StepMinutes <= 0 {
		return nil, errors.New("STEP_MINUTES must be positive")
	}
	if cfg.QualityThreshold < 0 || cfg.QualityThreshold > 100 {
		return nil, errors.New("QUALITY_THRESHOLD must be in 0-100")
	}
	if cfg.PrecipThreshold < 0 {
		return nil, errors.New("PRECIP_THRESHOLD must be non-negative")
	}
	if cfg.ROIMinLon >= cfg.ROIMaxLon || cfg.ROIMinLat >= cfg.ROIMaxLat {
		return nil, errors.New("region of interest box is degenerate")
	}
	if cfg.MinCellPixels < 0 {
		return nil, errors.New("MIN_CELL_PIXELS must be non-negative")
	}

	return cfg, nil
}

// Step is the locator step as a duration.
func (c *Config) Step() time.Duration {
	return time.Duration(c.StepMinutes) * time.Minute
}

// parseWindowTime accepts the compact composite-name layout or RFC3339.
// Empty input maps to the zero time; Load decides whether that is an error.
func parseWindowTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(windowTimeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want %s or RFC3339, got %q", windowTimeLayout, s)
	}
	return t.UTC(), nil
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
