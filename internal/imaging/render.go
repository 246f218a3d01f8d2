package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/gogpu/gg"

	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

// Rendering limits.
const (
	DefaultCellSize = 20
	MinCellSize     = 4
	MaxCellSize     = 64

	// maxRenderPixels caps the output image; the cell size shrinks to fit.
	maxRenderPixels = 4096 * 4096
)

// Pip geometry as fractions of the cell size.
const (
	pipDiameter = 0.15
	pipPadding  = 0.2
)

var gridLineColor = gg.Hex("#DDDDDD")

// RenderOptions controls how a grid is drawn. None of these fields affect
// grid values.
type RenderOptions struct {
	// UseShading draws pips in the standard die layouts. When false the
	// face numeral is drawn instead.
	UseShading bool

	// FaceColors sets the fill of each face. Nil means DefaultFaceColors.
	FaceColors FaceColors

	// CellSize is the edge of one die in pixels. Zero means DefaultCellSize.
	CellSize int
}

// RenderResult contains the rendered grid as a base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Cols        int    `json:"columns"`
	Rows        int    `json:"rows"`
	CellSize    int    `json:"cell_size"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderGrid draws g and returns it PNG encoded.
func RenderGrid(g mosaic.Grid, opts RenderOptions) (*RenderResult, error) {
	img, cell, err := renderImage(g, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &RenderResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Cols:        g.Cols(),
		Rows:        g.Rows(),
		CellSize:    cell,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// RenderImage draws g and returns the raw image.
func RenderImage(g mosaic.Grid, opts RenderOptions) (*image.RGBA, error) {
	img, _, err := renderImage(g, opts)
	return img, err
}

// WritePNG draws g and writes it to w as PNG.
func WritePNG(w io.Writer, g mosaic.Grid, opts RenderOptions) error {
	img, _, err := renderImage(g, opts)
	if err != nil {
		return err
	}
	return imgio.PNGEncoder()(w, img)
}

// SavePNG draws g into a PNG file at path.
func SavePNG(path string, g mosaic.Grid, opts RenderOptions) error {
	img, _, err := renderImage(g, opts)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func renderImage(g mosaic.Grid, opts RenderOptions) (*image.RGBA, int, error) {
	if err := g.Validate(); err != nil {
		return nil, 0, fmt.Errorf("cannot render grid: %w", err)
	}
	rows, cols := g.Rows(), g.Cols()
	if rows == 0 || cols == 0 {
		return nil, 0, fmt.Errorf("cannot render an empty grid")
	}

	cell := fitCellSize(opts.CellSize, cols, rows)
	colors := opts.FaceColors
	if colors == nil {
		colors = DefaultFaceColors()
	}

	dc := gg.NewContext(cols*cell, rows*cell)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	size := float64(cell)
	for r, row := range g {
		for c, face := range row {
			x, y := float64(c*cell), float64(r*cell)
			fill := colors.Color(face)

			dc.SetColor(fill)
			dc.DrawRectangle(x, y, size, size)
			if err := dc.Fill(); err != nil {
				return nil, 0, fmt.Errorf("fill cell (%d,%d): %w", r, c, err)
			}

			dc.SetColor(gridLineColor.Color())
			dc.SetLineWidth(0.5)
			dc.DrawRectangle(x, y, size, size)
			if err := dc.Stroke(); err != nil {
				return nil, 0, fmt.Errorf("stroke cell (%d,%d): %w", r, c, err)
			}

			if opts.UseShading {
				dc.SetColor(PipColor(fill))
				for _, p := range PipLayout(face) {
					dc.DrawCircle(x+p[0]*size, y+p[1]*size, pipDiameter*size/2)
				}
				if err := dc.Fill(); err != nil {
					return nil, 0, fmt.Errorf("draw pips (%d,%d): %w", r, c, err)
				}
			}
		}
	}

	img := clone.AsRGBA(dc.Image())
	if !opts.UseShading {
		for r, row := range g {
			for c, face := range row {
				drawNumeral(img, c*cell, r*cell, cell, face, PipColor(colors.Color(face)))
			}
		}
	}
	return img, cell, nil
}

// fitCellSize clamps the requested size and shrinks it until the whole
// image fits in maxRenderPixels.
func fitCellSize(requested, cols, rows int) int {
	cell := requested
	if cell <= 0 {
		cell = DefaultCellSize
	}
	cell = max(MinCellSize, min(cell, MaxCellSize))
	for cell > MinCellSize && cols*cell*rows*cell > maxRenderPixels {
		cell--
	}
	return cell
}

// PipLayout returns pip centers for face as fractions of the cell, (x, y).
// Faces outside 1..6 have no pips.
func PipLayout(face int) [][2]float64 {
	const (
		lo  = pipPadding
		mid = 0.5
		hi  = 1 - pipPadding
	)
	switch face {
	case 1:
		return [][2]float64{{mid, mid}}
	case 2:
		return [][2]float64{{lo, lo}, {hi, hi}}
	case 3:
		return [][2]float64{{lo, lo}, {mid, mid}, {hi, hi}}
	case 4:
		return [][2]float64{{lo, lo}, {lo, hi}, {hi, lo}, {hi, hi}}
	case 5:
		return [][2]float64{{lo, lo}, {lo, hi}, {mid, mid}, {hi, lo}, {hi, hi}}
	case 6:
		return [][2]float64{{lo, lo}, {lo, mid}, {lo, hi}, {hi, lo}, {hi, mid}, {hi, hi}}
	}
	return nil
}

// Simple 3x5 pixel font for the face numerals
var glyphs = map[int][5]string{
	1: {"010", "110", "010", "010", "111"},
	2: {"111", "001", "111", "100", "111"},
	3: {"111", "001", "111", "001", "111"},
	4: {"101", "101", "111", "001", "001"},
	5: {"111", "100", "111", "001", "111"},
	6: {"111", "100", "111", "101", "111"},
}

// drawNumeral draws face centered in the cell at (x, y), scaled to roughly
// 60% of the cell height. Cells too small for a legible glyph are skipped.
func drawNumeral(img *image.RGBA, x, y, cell, face int, fg color.Color) {
	glyph, ok := glyphs[face]
	if !ok || cell < 6 {
		return
	}
	scale := max(1, cell*6/10/5)
	x0 := x + (cell-3*scale)/2
	y0 := y + (cell-5*scale)/2

	bounds := img.Bounds()
	for row, line := range glyph {
		for col, pixel := range line {
			if pixel != '1' {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					px, py := x0+col*scale+dx, y0+row*scale+dy
					if image.Pt(px, py).In(bounds) {
						img.Set(px, py, fg)
					}
				}
			}
		}
	}
}
