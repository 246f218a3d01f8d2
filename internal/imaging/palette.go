package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

// PaletteMethod selects the color extractor used by SuggestPalette.
type PaletteMethod int

const (
	PaletteDominant PaletteMethod = iota
	PaletteKMeans
)

const paletteSize = mosaic.FaceDarkest - mosaic.FaceLightest + 1

func (m PaletteMethod) String() string {
	switch m {
	case PaletteKMeans:
		return "kmeans"
	default:
		return "dominant"
	}
}

// ParsePaletteMethod accepts "dominant" (the default), "dominantcolor" and
// "kmeans".
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dominant", "dominantcolor":
		return PaletteDominant, nil
	case "kmeans", "k-means":
		return PaletteKMeans, nil
	}
	return PaletteDominant, fmt.Errorf("unknown palette method %q", s)
}

// PaletteResult is a suggested set of face colors.
type PaletteResult struct {
	Method     string            `json:"method"`
	FaceColors map[string]string `json:"face_colors"`
	// Extracted is how many distinct colors the image yielded before the
	// palette was filled out to six faces.
	Extracted int `json:"extracted"`
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

// SuggestPalette picks six representative colors from img and assigns them
// to faces by brightness: the lightest color goes to face 1 and the darkest
// to face 6. When the image yields fewer than six colors the gaps are filled
// by blending between the extremes in Lab space; an image with no usable
// pixels gets the default palette.
func SuggestPalette(img image.Image, method PaletteMethod) *PaletteResult {
	var extracted []colorful.Color
	switch method {
	case PaletteKMeans:
		extracted = kmeansPalette(img, paletteSize)
		if len(extracted) == 0 {
			extracted = dominantPalette(img, paletteSize)
		}
	default:
		extracted = dominantPalette(img, paletteSize)
	}

	fc := DefaultFaceColors()
	if len(extracted) > 0 {
		sortByBrightness(extracted)
		for i, c := range fillPalette(extracted, paletteSize) {
			fc[mosaic.FaceLightest+i] = hexOf(c)
		}
	}

	return &PaletteResult{
		Method:     method.String(),
		FaceColors: fc.Strings(),
		Extracted:  len(extracted),
	}
}

// sortByBrightness orders colors from brightest to darkest using BT.709
// weights on linear RGB.
func sortByBrightness(palette []colorful.Color) {
	slices.SortStableFunc(palette, func(a, b colorful.Color) int {
		ya, yb := linearLuminance(a), linearLuminance(b)
		switch {
		case ya > yb:
			return -1
		case ya < yb:
			return 1
		}
		return 0
	})
}

func linearLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// fillPalette stretches a brightness-sorted palette to n entries.
func fillPalette(sorted []colorful.Color, n int) []colorful.Color {
	if len(sorted) >= n {
		return sorted[:n]
	}
	if len(sorted) == 1 {
		out := make([]colorful.Color, n)
		for i := range out {
			out[i] = sorted[0]
		}
		return out
	}
	out := make([]colorful.Color, n)
	last := float64(len(sorted) - 1)
	for i := range out {
		pos := float64(i) * last / float64(n-1)
		lo := int(math.Floor(pos))
		hi := min(lo+1, len(sorted)-1)
		out[i] = sorted[lo].BlendLab(sorted[hi], pos-float64(lo)).Clamped()
	}
	return out
}

func dominantPalette(img image.Image, k int) []colorful.Color {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		return nil
	}

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(color.RGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255})
		weighted = append(weighted, weightedColor{col: col.Clamped(), weight: max(c.Weight, 1e-6)})
	}
	return selectDiverse(weighted, k)
}

func kmeansPalette(img image.Image, k int) []colorful.Color {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample large images.
	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*4, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		mosaic.Logger().Debug("kmeans palette failed", "error", err)
		return nil
	}

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{col: col, weight: float64(len(c.Observations))})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse greedily picks up to k colors that are far apart in Lab
// space, biased towards heavily weighted candidates. The heaviest candidate
// is always chosen first. Near-duplicates are never picked twice.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		l, a, bb := c.col.Lab()
		items = append(items, item{col: c.col, lab: [3]float64{l, a, bb}, w: c.weight})
		maxW = math.Max(maxW, c.weight)
	}
	if maxW <= 0 {
		maxW = 1
	}

	selected := make([]bool, len(items))
	seed := 0
	for i := range items {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	picked := []int{seed}
	selected[seed] = true

	const minDistance = 1e-3
	for len(picked) < min(k, len(items)) {
		best, bestScore := -1, -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD := math.MaxFloat64
			for _, s := range picked {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD = math.Min(minD, math.Sqrt(d0*d0+d1*d1+d2*d2))
			}
			if minD < minDistance {
				continue
			}
			score := minD * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		selected[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, 0, len(picked))
	for _, idx := range picked {
		out = append(out, items[idx].col)
	}
	return out
}
