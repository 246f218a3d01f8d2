// Package imaging provides the image-side tooling around the mosaic core.
//
// It covers everything that touches pixels outside the quantization pipeline
// itself: reading and caching source files, reporting image metadata,
// cropping named regions before conversion, choosing face colors, suggesting
// a palette from a photo, and rendering a finished dice grid back to a PNG.
//
// # Coordinate System
//
// Grids are addressed row-major with (0,0) at the top-left cell. Rendered
// images place cell (r,c) at pixel (c*CellSize, r*CellSize), so X follows
// columns and Y follows rows.
//
// # Face Colors
//
// Face colors are hex strings keyed by face value 1..6. Face 1 is the
// lightest die and face 6 the darkest, matching the quantizer's convention.
// Colors only affect rendering; they never change grid values.
//
// # Thread Safety
//
// SourceCache is safe for concurrent use. All other functions are stateless
// and may be called concurrently.
package imaging
