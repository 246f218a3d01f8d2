package mosaic

import "math"

const (
	// AutoCellBudget is the approximate number of dice targeted by automatic
	// sizing.
	AutoCellBudget = 6000

	// DefaultDimension is the side of the square grid used when the image
	// geometry is degenerate under automatic sizing, and for the decode
	// fallback grid.
	DefaultDimension = 80
)

// Bounds limits the extent of each grid axis. Both limits are inclusive.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultBounds keeps each axis between 10 and 150 cells.
var DefaultBounds = Bounds{Min: 10, Max: 150}

func (b Bounds) normalize() Bounds {
	if b.Min == 0 && b.Max == 0 {
		return DefaultBounds
	}
	if b.Min < 1 {
		b.Min = 1
	}
	if b.Max < b.Min {
		b.Max = b.Min
	}
	return b
}

func (b Bounds) clamp(v int) int {
	return clampInt(v, b.Min, b.Max)
}

// Clamp limits v to the bounds, treating the zero Bounds as DefaultBounds.
func (b Bounds) Clamp(v int) int {
	return b.normalize().clamp(v)
}

// Dimensions computes the grid's column and row count for an image of the
// given pixel size.
//
// An explicit size is applied to the image's long axis and the other axis is
// derived from the aspect ratio. Auto targets AutoCellBudget cells. When an
// axis exceeds b.Max it is clamped and the other axis is re-derived; finally
// both axes are clamped into b, so the result always lies within the bounds
// even when that costs aspect fidelity.
//
// A zero or negative width or height yields a square grid (the explicit
// size, or DefaultDimension for Auto) without dividing by zero.
func Dimensions(width, height int, size SizeSpec, b Bounds) (cols, rows int) {
	b = b.normalize()
	n, explicit := size.Dimension()
	if explicit && n < 1 {
		n = 1
	}

	if width <= 0 || height <= 0 {
		return squareFallback(n, explicit, b)
	}
	ar := float64(width) / float64(height)
	if math.IsNaN(ar) || math.IsInf(ar, 0) || ar <= 0 {
		return squareFallback(n, explicit, b)
	}

	if explicit {
		if ar >= 1 {
			cols = n
			rows = roundInt(float64(n) / ar)
		} else {
			rows = n
			cols = roundInt(float64(n) * ar)
		}
	} else {
		cols = roundInt(math.Sqrt(AutoCellBudget * ar))
		rows = roundInt(float64(cols) / ar)
	}

	if cols > b.Max {
		cols = b.Max
		rows = roundInt(float64(cols) / ar)
	}
	if rows > b.Max {
		rows = b.Max
		cols = roundInt(float64(rows) * ar)
	}

	return b.clamp(cols), b.clamp(rows)
}

func squareFallback(n int, explicit bool, b Bounds) (int, int) {
	d := DefaultDimension
	if explicit {
		d = n
	}
	d = b.clamp(d)
	return d, d
}

// roundInt rounds half away from zero and saturates instead of overflowing.
func roundInt(v float64) int {
	r := math.Round(v)
	if r >= math.MaxInt32 {
		return math.MaxInt32
	}
	if r <= math.MinInt32 {
		return math.MinInt32
	}
	return int(r)
}
