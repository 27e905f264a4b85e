package netcdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ctessum/cdf"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

// CompositeSpec describes a composite file to synthesize. The mock generator
// and the test fixtures share it; the layout mirrors what the operational
// product carries.
type CompositeSpec struct {
	Timestamp time.Time
	X, Y      []float64
	ACRR      []float64 // row-major (Y, X), hundredths of mm
	Quality   []float64 // row-major (Y, X), 0-100

	ACRRMissing    *float64 // written as the ACRR missing_value attribute
	QualityMissing *float64

	Projection domain.ProjectionDescriptor

	// Corrupt-file knobs for tests.
	OmitGridMapping bool // write no CRS record
	OmitQuality     bool // drop the QUALITY variable
}

// WriteComposite creates path (and its parent directories) as a classic
// NetCDF file with the composite schema. An ACRR slice whose length differs
// from len(X)*len(Y) is written under its own dimension, producing the
// shape-mismatch condition readers must reject.
func WriteComposite(path string, spec CompositeSpec) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create composite dirs: %w", err)
	}

	dims := []string{"time", "Y", "X"}
	lengths := []int{1, len(spec.Y), len(spec.X)}
	acrrDims := []string{"Y", "X"}
	if len(spec.ACRR) != len(spec.X)*len(spec.Y) {
		dims = append(dims, "n")
		lengths = append(lengths, len(spec.ACRR))
		acrrDims = []string{"n"}
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddVariable("X", []string{"X"}, []float64{0})
	h.AddVariable("Y", []string{"Y"}, []float64{0})
	h.AddVariable("ACRR", acrrDims, []float64{0})
	if spec.ACRRMissing != nil {
		h.AddAttribute("ACRR", "missing_value", []float64{*spec.ACRRMissing})
	}
	if !spec.OmitQuality {
		h.AddVariable("QUALITY", []string{"Y", "X"}, []float64{0})
		if spec.QualityMissing != nil {
			h.AddAttribute("QUALITY", "missing_value", []float64{*spec.QualityMissing})
		}
	}
	if !spec.OmitGridMapping {
		h.AddVariable("crs", []string{"time"}, []int32{0})
		h.AddAttribute("ACRR", "grid_mapping", "crs")
		h.AddAttribute("crs", domain.AttrLatitudeOfOrigin, []float64{spec.Projection.LatitudeOfOrigin})
		h.AddAttribute("crs", domain.AttrLongitudeFromPole, []float64{spec.Projection.CentralLongitude})
		h.AddAttribute("crs", domain.AttrStandardParallel, []float64{spec.Projection.StandardParallel})
		h.AddAttribute("crs", domain.AttrFalseEasting, []float64{spec.Projection.FalseEasting})
		h.AddAttribute("crs", domain.AttrFalseNorthing, []float64{spec.Projection.FalseNorthing})
	}
	h.Define()

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create composite %s: %w", path, err)
	}
	defer fh.Close()

	cf, err := cdf.Create(fh, h)
	if err != nil {
		return fmt.Errorf("write composite header %s: %w", path, err)
	}

	if err := writeFloats(cf, "time", []float64{float64(spec.Timestamp.Unix())}); err != nil {
		return err
	}
	if err := writeFloats(cf, "X", spec.X); err != nil {
		return err
	}
	if err := writeFloats(cf, "Y", spec.Y); err != nil {
		return err
	}
	if err := writeFloats(cf, "ACRR", spec.ACRR); err != nil {
		return err
	}
	if !spec.OmitQuality {
		if err := writeFloats(cf, "QUALITY", spec.Quality); err != nil {
			return err
		}
	}
	if !spec.OmitGridMapping {
		if err := writeInts(cf, "crs", []int32{0}); err != nil {
			return err
		}
	}
	return cdf.UpdateNumRecs(fh)
}

func writeFloats(f *cdf.File, name string, data []float64) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeInts(f *cdf.File, name string, data []int32) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
