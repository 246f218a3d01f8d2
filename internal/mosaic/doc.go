// Package mosaic converts raster images into grids of dice faces.
//
// A dice mosaic approximates an image with a grid of six-sided dice, each die
// turned so the number of pips matches the local brightness: face 6 (most
// pips) for the darkest areas, face 1 for the lightest. This package holds
// the conversion pipeline and nothing else; rendering, storage and transport
// live in sibling packages.
//
// # Pipeline
//
// Process runs the following steps on a decoded image:
//
//  1. Sampler: Dimensions picks the grid's column and row count from the
//     image aspect ratio and a SizeSpec (an explicit long-axis extent or
//     Auto), clamped into Bounds.
//  2. Resampler: Resample box-filters the image down to one pixel per cell,
//     going through a supersampled intermediate raster first.
//  3. Luminance: Luminance maps RGB to brightness with ITU-R BT.709 weights.
//  4. Contrast: AdjustContrast stretches brightness around mid-gray (128)
//     using ContrastFactor.
//  5. Quantizer: Quantize maps adjusted brightness to a face in six bands,
//     or to faces 1 and 6 only in binary mode.
//  6. Grid assembly: values are laid out row-major into a Grid, optionally
//     padded or truncated to an exact square.
//
// ProcessImage adds the decode step in front. A decode failure never surfaces
// as an error: the caller gets a RandomGrid with Result.Fallback set.
//
// # Contrast calibration
//
// The contrast formula is applied to the raw percentage. A contrast of 50,
// the usual default, is not an identity transform: it stretches by a factor
// of about 1.48. A contrast of 0 is the identity.
//
// # Thread Safety
//
// All functions are safe for concurrent use. Every call allocates its own
// buffers; nothing is shared between invocations except the logger set with
// SetLogger. RandomGrid draws from the global math/rand/v2 source and is the
// only nondeterministic function in the package.
package mosaic
