package mosaic

import (
	"math"
	"math/rand/v2"
)

// RandomGrid returns a size x size grid of independent, uniformly random
// faces. It is nondeterministic; use RandomGridSeeded for reproducible output.
// A size below 1 is treated as 1.
func RandomGrid(size int) Grid {
	return randomGrid(size, rand.IntN)
}

// RandomGridSeeded is RandomGrid drawing from a PCG source seeded with seed.
// Equal seeds give equal grids.
func RandomGridSeeded(size int, seed uint64) Grid {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return randomGrid(size, r.IntN)
}

func randomGrid(size int, intN func(int) int) Grid {
	size = max(size, 1)
	g := make(Grid, size)
	for r := range g {
		row := make([]int, size)
		for c := range row {
			row[c] = intN(FaceDarkest) + 1
		}
		g[r] = row
	}
	return g
}

// SampleGrid returns a deterministic size x size diagonal gradient running
// from face 1 in the top-left corner towards face 6 in the bottom-right. It
// is a placeholder for when no image has been supplied.
func SampleGrid(size int) Grid {
	size = max(size, 1)
	g := make(Grid, size)
	for r := range g {
		row := make([]int, size)
		for c := range row {
			v := int(math.Floor(float64(r+c)/float64(2*size)*6)) + 1
			row[c] = clampInt(v, FaceLightest, FaceDarkest)
		}
		g[r] = row
	}
	return g
}
