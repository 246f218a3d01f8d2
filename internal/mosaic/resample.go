package mosaic

import (
	"image"

	"github.com/disintegration/imaging"
)

// Resample scales img to exactly cols x rows pixels, one pixel per grid cell.
//
// The image is first box-filtered to cols*supersample x rows*supersample and
// then box-filtered again to the target size. Box filtering averages the
// covered source area, so a hard edge that falls on a cell boundary stays
// hard. The result is deterministic for identical input.
//
// A nil or empty image yields a black raster of the requested size.
func Resample(img image.Image, cols, rows, supersample int) *image.NRGBA {
	cols, rows = max(cols, 1), max(rows, 1)
	supersample = clampInt(supersample, 1, maxSupersample)
	if img == nil || img.Bounds().Empty() {
		return blankRaster(cols, rows)
	}

	src := img
	if supersample > 1 {
		src = Supersample(img, cols, rows, supersample)
	}
	return imaging.Resize(src, cols, rows, imaging.Box)
}

// Supersample scales img to cols*factor x rows*factor pixels with a box
// filter. It is the intermediate raster used by Resample and by the halftone
// quantizer.
func Supersample(img image.Image, cols, rows, factor int) *image.NRGBA {
	cols, rows = max(cols, 1), max(rows, 1)
	factor = clampInt(factor, 1, maxSupersample)
	if img == nil || img.Bounds().Empty() {
		return blankRaster(cols*factor, rows*factor)
	}
	return imaging.Resize(img, cols*factor, rows*factor, imaging.Box)
}

func blankRaster(w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
