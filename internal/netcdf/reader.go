// Package netcdf reads and writes the national radar composite files. The
// files are classic NetCDF; georeferencing is rebuilt from the non-standard
// grid-mapping record rather than auto-detected, see the domain package.
package netcdf

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ctessum/cdf"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

// Window is the accumulation interval of a single composite file, fixed by
// the product (the "5min" in the file name).
const Window = 5 * time.Minute

// requiredVars must all be present for a file to be interpretable.
var requiredVars = []string{"ACRR", "QUALITY", "X", "Y", "time"}

// Reader adapts ReadComposite to the pipeline seam. It is stateless; each
// file is opened, read, and closed before the next.
type Reader struct{}

func (Reader) ReadFrame(_ context.Context, ref domain.FrameRef) (*domain.RadarFrame, error) {
	return ReadComposite(ref.Path)
}

// ReadComposite reads one composite file into a RadarFrame. All errors are
// fatal for the file and carry its path; the handle is released before
// returning on every path.
func ReadComposite(path string) (*domain.RadarFrame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open composite: %w", err)
	}
	defer fh.Close()

	cf, err := cdf.Open(fh)
	if err != nil {
		return nil, fmt.Errorf("parse composite %s: %w", path, err)
	}

	for _, name := range requiredVars {
		if !hasVariable(cf, name) {
			return nil, fmt.Errorf("%s: %w: %s", path, domain.ErrMissingVariable, name)
		}
	}

	xs, err := readFloats(cf, "X")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ys, err := readFloats(cf, "Y")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	times, err := readFloats(cf, "time")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	acrr, err := readFloats(cf, "ACRR")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	quality, err := readFloats(cf, "QUALITY")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if len(acrr) != len(xs)*len(ys) || len(quality) != len(acrr) {
		return nil, fmt.Errorf("%s: %w: ACRR=%d QUALITY=%d X=%d Y=%d",
			path, domain.ErrShapeMismatch, len(acrr), len(quality), len(xs), len(ys))
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%s: %w: time variable is empty", path, domain.ErrShapeMismatch)
	}

	attrs, ok := gridMappingAttrs(cf)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrMissingGridMapping)
	}
	projd, err := domain.ResolveProjection(attrs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ts := time.Unix(int64(times[0]), 0).UTC()
	frame, err := domain.NewFrame(ts, Window, domain.Grid{X: xs, Y: ys}, projd,
		acrr, quality,
		attrFloatPtr(cf, "ACRR", "missing_value"),
		attrFloatPtr(cf, "QUALITY", "missing_value"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	frame.SourcePath = path
	return frame, nil
}

func hasVariable(f *cdf.File, name string) bool {
	for _, v := range f.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// readFloats reads an entire variable as float64 regardless of its stored
// NetCDF type.
func readFloats(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	switch v := buf.(type) {
	case []float64:
		return v, nil
	case []float32:
		return widen(v), nil
	case []int32:
		return widen(v), nil
	case []int16:
		return widen(v), nil
	case []int8:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("read %s: unsupported element type %T", name, buf)
	}
}

func widen[T float32 | int32 | int16 | int8](in []T) []float64 {
	out := make([]float64, len(in))
	for i, e := range in {
		out[i] = float64(e)
	}
	return out
}

// gridMappingAttrs locates the grid-mapping record: the variable named by
// ACRR's grid_mapping attribute when present, otherwise any variable
// carrying a latitude_of_projection_origin attribute. It returns the
// projection attributes found on that record; absent attributes fall back to
// the documented defaults during resolution.
func gridMappingAttrs(f *cdf.File) (map[string]float64, bool) {
	target := ""
	if s, ok := f.Header.GetAttribute("ACRR", "grid_mapping").(string); ok && s != "" && hasVariable(f, s) {
		target = s
	} else {
		for _, v := range f.Header.Variables() {
			if _, ok := attrFloat(f, v, domain.AttrLatitudeOfOrigin); ok {
				target = v
				break
			}
		}
	}
	if target == "" {
		return nil, false
	}

	attrs := make(map[string]float64)
	for _, name := range []string{
		domain.AttrLatitudeOfOrigin,
		domain.AttrLongitudeFromPole,
		domain.AttrStandardParallel,
		domain.AttrFalseEasting,
		domain.AttrFalseNorthing,
	} {
		if v, ok := attrFloat(f, target, name); ok {
			attrs[name] = v
		}
	}
	return attrs, true
}

// attrFloat reads a numeric attribute, tolerating the scalar and slice
// encodings different writers produce.
func attrFloat(f *cdf.File, varName, attr string) (float64, bool) {
	switch v := f.Header.GetAttribute(varName, attr).(type) {
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case float64:
		return v, true
	case int32:
		return float64(v), true
	}
	return 0, false
}

func attrFloatPtr(f *cdf.File, varName, attr string) *float64 {
	if v, ok := attrFloat(f, varName, attr); ok {
		return &v
	}
	return nil
}
