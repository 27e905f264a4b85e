package netcdf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

// Composite files live under <base>/<YYYYMM>/<YYYYMMDD>/ and are named for
// the start of their 5-minute accumulation interval.
const (
	fileTimeLayout = "200601021504"
	monthDirLayout = "200601"
	dayDirLayout   = "20060102"
	fileNameFormat = "cumul_france_1536-1km-5min_%s.nc"
)

// CompositePath derives the expected on-disk path for the composite whose
// interval starts at t.
func CompositePath(base string, t time.Time) string {
	name := fmt.Sprintf(fileNameFormat, t.Format(fileTimeLayout))
	return filepath.Join(base, t.Format(monthDirLayout), t.Format(dayDirLayout), name)
}

// Locate walks the window [start, end] inclusive in step increments and
// returns refs for the candidates present on disk, ascending by timestamp.
// Missing files are warned about and skipped; they are expected during an
// outage. An entirely empty result is ErrNoData: nothing is available for
// the requested window.
func Locate(base string, start, end time.Time, step time.Duration, logger *slog.Logger) ([]domain.FrameRef, error) {
	if step <= 0 {
		return nil, fmt.Errorf("locate composites: step must be positive, got %s", step)
	}
	var refs []domain.FrameRef
	for current := start; !current.After(end); current = current.Add(step) {
		path := CompositePath(base, current)
		if _, err := os.Stat(path); err != nil {
			logger.Warn("composite missing, skipping", "path", path, "timestamp", current)
			continue
		}
		refs = append(refs, domain.FrameRef{Path: path, Timestamp: current})
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: %s to %s under %s", domain.ErrNoData,
			start.Format(fileTimeLayout), end.Format(fileTimeLayout), base)
	}
	return refs, nil
}
