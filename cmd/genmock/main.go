// Command genmock synthesizes radar composite files for local development.
// It writes a drifting precipitation blob over the Alps into the same dated
// directory layout the operational feed uses, so a generated tree can be fed
// straight to radartrack run.
//
// Usage:
//
//	genmock -out ./data -start 202608251200 -frames 12 -step 5
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
	"github.com/seghersnico/radar-cell-tracking/internal/netcdf"
)

const timeLayout = "200601021504"

// Grid center in native polar-stereographic meters, roughly 46N 10E.
const (
	centerX = 764000.0
	centerY = -4333000.0

	gridSize = 64   // cells per axis
	spacing  = 1000 // meters

	missingValue = 65535.0
)

func main() {
	out := flag.String("out", "./data", "base directory for the dated composite tree")
	startStr := flag.String("start", "", "first frame timestamp, "+timeLayout+" (UTC)")
	frames := flag.Int("frames", 12, "number of 5-minute frames to generate")
	step := flag.Int("step", 5, "minutes between frames")
	flag.Parse()

	if *startStr == "" {
		fmt.Fprintln(os.Stderr, "genmock: -start is required")
		os.Exit(2)
	}
	start, err := time.ParseInLocation(timeLayout, *startStr, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genmock: invalid -start: %v\n", err)
		os.Exit(2)
	}
	if *frames <= 0 || *step <= 0 {
		fmt.Fprintln(os.Stderr, "genmock: -frames and -step must be positive")
		os.Exit(2)
	}

	x := make([]float64, gridSize)
	y := make([]float64, gridSize)
	for i := range x {
		x[i] = centerX + float64(i-gridSize/2)*spacing
		y[i] = centerY + float64(i-gridSize/2)*spacing
	}

	for n := 0; n < *frames; n++ {
		ts := start.Add(time.Duration(n**step) * time.Minute)
		path := netcdf.CompositePath(*out, ts)

		acrr, quality := blobFrame(x, y, n)
		missing := missingValue
		spec := netcdf.CompositeSpec{
			Timestamp:      ts,
			X:              x,
			Y:              y,
			ACRR:           acrr,
			Quality:        quality,
			ACRRMissing:    &missing,
			QualityMissing: &missing,
			Projection:     domain.DefaultProjection(),
		}
		if err := netcdf.WriteComposite(path, spec); err != nil {
			fmt.Fprintf(os.Stderr, "genmock: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
	}
}

// blobFrame renders one time step: a Gaussian rain cell drifting east at
// about 2 km per frame, peak intensity 3 mm per 5 minutes, over a uniform
// high-quality background with a low-quality stripe on the western edge.
func blobFrame(x, y []float64, frame int) (acrr, quality []float64) {
	acrr = make([]float64, len(x)*len(y))
	quality = make([]float64, len(x)*len(y))

	blobX := centerX - 20000 + float64(frame)*2000
	blobY := centerY + 3000
	const sigma = 4000.0

	for i := range y {
		for j := range x {
			k := i*len(x) + j

			dx := x[j] - blobX
			dy := y[i] - blobY
			v := 300 * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
			if v < 1 {
				v = 0
			}
			acrr[k] = math.Round(v)

			quality[k] = 95
			if j < 4 {
				quality[k] = 20
			}
		}
	}
	return acrr, quality
}
