// Package domain models national radar precipitation composites and the
// precipitation-cell objects extracted from them.
//
// # Data Source
//
// Input files are 5-minute national accumulation composites on a 1536x1536,
// 1 km polar-stereographic grid, one NetCDF file per interval:
//
//	<base>/<YYYYMM>/<YYYYMMDD>/cumul_france_1536-1km-5min_<YYYYMMDDHHMM>.nc
//
// The file timestamp is the start of the accumulation interval.
//
// # Composite Conventions
//
// Variables:
//
//	ACRR     accumulated precipitation in hundredths of a millimeter.
//	QUALITY  per-pixel data-quality code, 0-100.
//	X, Y     1D native projected coordinates in meters (X = columns,
//	         Y = rows). Spacing is not assumed uniform.
//	time     interval start as Unix seconds.
//
// Both data variables are stored flat and reshaped row-major with (Y, X)
// axis order: element k maps to row k/len(X), column k%len(X).
//
// Missing values:
//
//	Each variable may declare its own missing_value sentinel; the two
//	sentinels are independent. The sentinel-to-null mapping is resolved
//	once at ingestion into an explicit validity mask and never
//	re-interpreted downstream.
//
//	For accumulation windows longer than 15 minutes the dataset encodes
//	"no measurable rain" as the sentinel (conventionally 65535) rather
//	than 0. Aggregated frames therefore substitute null accumulation
//	with zero at binarization; see [LongWindowThreshold].
//
// # Georeferencing
//
// The composites embed their map projection in a non-standard grid-mapping
// record that format auto-detection cannot parse, so the coordinate
// reference system is rebuilt explicitly from five attributes
// (latitude_of_projection_origin, straight_vertical_longitude_from_pole,
// standard_parallel, false_easting, false_northing) with documented
// defaults, a fixed WGS84 ellipsoid, and meters as the linear unit. The
// assembled proj4 string is validated by an independent projection-engine
// parse; see [ResolveProjection]. A file without the record cannot be
// placed on a map and is rejected outright.
//
// # Cells
//
// Thresholding the quality-masked accumulation layer yields a binary
// precipitation map whose maximal 8-connected components become
// [PrecipitationCell] values: frame-local ids in scan order, centroids in
// native projection meters, and intensity statistics in millimeters. Cell
// ids are not stable across frames; matching cells between consecutive
// frames is the job of a downstream tracker consuming [FrameResult].
package domain
