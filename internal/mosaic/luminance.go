package mosaic

import (
	"image"

	"github.com/disintegration/imaging"
)

// ITU-R BT.709 luma weights. These are the only weights used for grid
// computation.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Luminance returns the BT.709 perceptual brightness of an 8-bit RGB color,
// in [0,255].
func Luminance(r, g, b uint8) float64 {
	return lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b)
}

// LegacyLuminance returns the BT.601 brightness (0.299, 0.587, 0.114). It is
// not used to compute grids; renderers use it to choose a pip color that
// contrasts with a face color.
func LegacyLuminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// LuminanceBuffer converts every pixel of img to BT.709 brightness. The
// buffer is indexed [y][x] relative to the image's top-left corner. Alpha is
// ignored: the straight (non-premultiplied) color channels are read as if
// the pixel were opaque.
func LuminanceBuffer(img image.Image) [][]float64 {
	px := imaging.Clone(img)
	b := px.Bounds()
	w, h := b.Dx(), b.Dy()

	buf := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		off := y * px.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			row[x] = Luminance(px.Pix[i], px.Pix[i+1], px.Pix[i+2])
		}
		buf[y] = row
	}
	return buf
}
