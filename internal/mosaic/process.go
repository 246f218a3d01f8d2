package mosaic

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Result is the outcome of ProcessImage.
type Result struct {
	// Grid is the converted image, or a random grid when Fallback is set.
	Grid Grid `json:"grid"`

	// Cols and Rows are the grid dimensions.
	Cols int `json:"cols"`
	Rows int `json:"rows"`

	// SourceWidth and SourceHeight are the decoded image size in pixels.
	// Both are 0 when decoding failed.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	// Format is the name of the decoder that read the image ("png", "jpeg", ...).
	Format string `json:"format,omitempty"`

	// Fallback reports that decoding failed and Grid is random filler.
	Fallback bool `json:"fallback"`

	// FallbackReason describes the decode failure.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// ProcessImage decodes data and converts it to a dice grid.
//
// It never fails. If data cannot be decoded (corrupt, truncated, unsupported
// format) the result holds a RandomGrid of the explicit size, or of
// DefaultDimension for Auto, with Fallback set so callers can tell degraded
// output apart.
func ProcessImage(data []byte, s Settings) *Result {
	s = s.Normalize()

	img, format, err := Decode(data)
	if err != nil {
		size := fallbackSize(s)
		Logger().Warn("image decode failed, substituting random grid",
			"error", err, "bytes", len(data), "size", size)
		g := RandomGrid(size)
		if s.Square > 0 {
			g = g.Square(s.Square)
		}
		return &Result{
			Grid:           g,
			Cols:           g.Cols(),
			Rows:           g.Rows(),
			Fallback:       true,
			FallbackReason: err.Error(),
		}
	}
	return ProcessDecoded(img, format, s)
}

// ProcessDecoded converts an image the caller already decoded, for example
// after cropping it. format is copied into the result.
func ProcessDecoded(img image.Image, format string, s Settings) *Result {
	g := Process(img, s)
	r := &Result{
		Grid:   g,
		Cols:   g.Cols(),
		Rows:   g.Rows(),
		Format: format,
	}
	if img != nil {
		r.SourceWidth, r.SourceHeight = img.Bounds().Dx(), img.Bounds().Dy()
	}
	return r
}

// Process converts a decoded image to a dice grid. It is deterministic: the
// same image and settings always give the same grid.
func Process(img image.Image, s Settings) Grid {
	s = s.Normalize()

	var w, h int
	if img != nil {
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}
	cols, rows := Dimensions(w, h, s.Size, s.Bounds)
	factor := ContrastFactor(s.Contrast)

	Logger().Debug("converting image",
		"width", w, "height", h, "size", s.Size.String(),
		"cols", cols, "rows", rows, "contrast", s.Contrast, "mode", s.Mode.String())

	var g Grid
	if s.Mode == ModeHalftone {
		g = halftoneGrid(img, cols, rows, s.Supersample, factor)
	} else {
		lum := LuminanceBuffer(Resample(img, cols, rows, s.Supersample))
		g = quantizeBuffer(lum, factor, s.Mode)
	}

	if s.Square > 0 {
		g = g.Square(s.Square)
	}
	return g
}

// Decode reads an image from data. Decoder panics on hostile input are
// returned as errors.
func Decode(data []byte) (img image.Image, format string, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, format, err = nil, "", fmt.Errorf("decoder panic: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, "", fmt.Errorf("failed to decode image: empty input")
	}
	img, format, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

func fallbackSize(s Settings) int {
	if n, ok := s.Size.Dimension(); ok {
		return s.Bounds.clamp(n)
	}
	return s.Bounds.clamp(DefaultDimension)
}
