package mosaic

// pivot is the mid-gray the contrast stretch rotates around.
const pivot = 128.0

// ContrastFactor returns the stretch factor for a contrast percentage:
//
//	factor = 259 * (c + 255) / (255 * (259 - c))
//
// c is clamped to [0,100]. The factor is 1 at c = 0 and about 1.482 at
// c = 50, so the customary default of 50 already increases contrast.
func ContrastFactor(contrast int) float64 {
	c := float64(clampInt(contrast, 0, 100))
	return (259 * (c + 255)) / (255 * (259 - c))
}

// AdjustContrast applies factor around mid-gray and clamps to [0,255].
func AdjustContrast(gray, factor float64) float64 {
	return clampFloat(factor*(gray-pivot)+pivot, 0, 255)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
