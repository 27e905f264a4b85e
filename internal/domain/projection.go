package domain

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ctessum/geom/proj"
)

// Grid-mapping attribute names used by the composite files. The encoding is
// not CF-standard, which is why the projection is rebuilt field by field
// instead of relying on format auto-detection.
const (
	AttrLatitudeOfOrigin  = "latitude_of_projection_origin"
	AttrLongitudeFromPole = "straight_vertical_longitude_from_pole"
	AttrStandardParallel  = "standard_parallel"
	AttrFalseEasting      = "false_easting"
	AttrFalseNorthing     = "false_northing"
)

// ProjectionDescriptor is a resolved, validated polar-stereographic
// coordinate reference system. The ellipsoid is fixed to WGS84 and the
// linear unit to meters; only the five stereographic parameters vary.
type ProjectionDescriptor struct {
	LatitudeOfOrigin float64 `json:"lat_0"`
	CentralLongitude float64 `json:"lon_0"`
	StandardParallel float64 `json:"lat_ts"`
	FalseEasting     float64 `json:"x_0"`
	FalseNorthing    float64 `json:"y_0"`
}

// DefaultProjection is the descriptor assumed when the source omits an
// attribute: north-polar stereographic, true scale at 45N, no planar offsets.
func DefaultProjection() ProjectionDescriptor {
	return ProjectionDescriptor{
		LatitudeOfOrigin: 90.0,
		CentralLongitude: 0.0,
		StandardParallel: 45.0,
		FalseEasting:     0.0,
		FalseNorthing:    0.0,
	}
}

// ResolveProjection merges the grid-mapping attributes present in attrs over
// the documented defaults and validates the result with the projection
// engine. A parse failure is fatal for the file: producing a string is not
// enough if the engine cannot use it.
func ResolveProjection(attrs map[string]float64) (ProjectionDescriptor, error) {
	d := DefaultProjection()
	if v, ok := attrs[AttrLatitudeOfOrigin]; ok {
		d.LatitudeOfOrigin = v
	}
	if v, ok := attrs[AttrLongitudeFromPole]; ok {
		d.CentralLongitude = v
	}
	if v, ok := attrs[AttrStandardParallel]; ok {
		d.StandardParallel = v
	}
	if v, ok := attrs[AttrFalseEasting]; ok {
		d.FalseEasting = v
	}
	if v, ok := attrs[AttrFalseNorthing]; ok {
		d.FalseNorthing = v
	}
	if _, err := d.SR(); err != nil {
		return ProjectionDescriptor{}, fmt.Errorf("%w: %v", ErrInvalidGridMapping, err)
	}
	return d, nil
}

// Proj4 renders the descriptor as a proj4 string. Whole-number parameters
// keep a trailing ".0", matching the historical string form of this
// dataset's CRS.
func (d ProjectionDescriptor) Proj4() string {
	return fmt.Sprintf("+proj=stere +lat_0=%s +lon_0=%s +lat_ts=%s +x_0=%s +y_0=%s +ellps=WGS84 +units=m +no_defs",
		projFloat(d.LatitudeOfOrigin), projFloat(d.CentralLongitude), projFloat(d.StandardParallel),
		projFloat(d.FalseEasting), projFloat(d.FalseNorthing))
}

// SR parses the descriptor into a spatial reference. Results are memoized
// per proj4 string since every frame of a batch shares the same projection.
func (d ProjectionDescriptor) SR() (*proj.SR, error) {
	return srCache.parse(d.Proj4())
}

func projFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// srCache memoizes proj.Parse results, keeping only the handful of distinct
// strings a batch can produce. Parsed spatial references are read-only and
// safe to share.
type projParseCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*proj.SR
	order      []string
}

var srCache = &projParseCache{maxEntries: 16, entries: make(map[string]*proj.SR)}

func (c *projParseCache) parse(p4 string) (*proj.SR, error) {
	c.mu.Lock()
	if sr, ok := c.entries[p4]; ok {
		c.mu.Unlock()
		return sr, nil
	}
	c.mu.Unlock()

	sr, err := proj.Parse(p4)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, ok := c.entries[p4]; !ok {
		if len(c.order) >= c.maxEntries {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.entries[p4] = sr
		c.order = append(c.order, p4)
	}
	c.mu.Unlock()
	return sr, nil
}
