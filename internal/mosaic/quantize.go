package mosaic

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Face values. FaceLightest is also the padding value for squared grids.
const (
	FaceLightest = 1
	FaceDarkest  = 6
)

// binaryThreshold splits light from dark in binary and halftone modes.
// Values strictly above it are light.
const binaryThreshold = 128.0

// sixBandEdges are the lower edges of faces 5 down to 1: [0,42) is face 6,
// [42,85) face 5, ... [213,255] face 1.
var sixBandEdges = [...]float64{42, 85, 128, 171, 213}

// QuantizeSixBand maps brightness in [0,255] to a face, darkest to 6.
func QuantizeSixBand(v float64) int {
	if math.IsNaN(v) {
		return FaceLightest
	}
	face := FaceDarkest
	for _, edge := range sixBandEdges {
		if v < edge {
			break
		}
		face--
	}
	return clampInt(face, FaceLightest, FaceDarkest)
}

// QuantizeBinary maps brightness above 128 to face 1 and everything else to
// face 6.
func QuantizeBinary(v float64) int {
	if math.IsNaN(v) {
		return FaceLightest
	}
	if v > binaryThreshold {
		return FaceLightest
	}
	return FaceDarkest
}

// Quantize maps adjusted brightness to a face using mode. ModeHalftone
// quantizes already-averaged values, so it uses the six bands here.
func Quantize(mode Mode, v float64) int {
	if mode == ModeBinary {
		return QuantizeBinary(v)
	}
	return QuantizeSixBand(v)
}

// quantizeBuffer contrast-adjusts and quantizes a luminance buffer into a
// grid of the same shape.
func quantizeBuffer(lum [][]float64, factor float64, mode Mode) Grid {
	g := make(Grid, len(lum))
	for y, row := range lum {
		out := make([]int, len(row))
		for x, v := range row {
			out[x] = Quantize(mode, AdjustContrast(v, factor))
		}
		g[y] = out
	}
	return g
}

// halftoneGrid thresholds the supersampled raster to pure black and white
// after contrast adjustment, averages it down to cols x rows and quantizes
// the averages into six bands.
func halftoneGrid(img image.Image, cols, rows, supersample int, factor float64) Grid {
	large := Supersample(img, cols, rows, supersample)
	lum := LuminanceBuffer(large)

	mono := image.NewGray(large.Bounds())
	for y, row := range lum {
		off := y * mono.Stride
		for x, v := range row {
			if AdjustContrast(v, factor) > binaryThreshold {
				mono.Pix[off+x] = 0xff
			}
		}
	}

	small := imaging.Resize(mono, max(cols, 1), max(rows, 1), imaging.Box)
	return quantizeBuffer(LuminanceBuffer(small), 1, ModeSixBand)
}
