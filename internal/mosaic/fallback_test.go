package mosaic

import (
	"reflect"
	"testing"
)

func TestRandomGrid(t *testing.T) {
	for _, size := range []int{-3, 0, 1, 7, 80} {
		g := RandomGrid(size)
		want := max(size, 1)
		if g.Rows() != want || g.Cols() != want {
			t.Errorf("RandomGrid(%d): got %dx%d, want %dx%d", size, g.Cols(), g.Rows(), want, want)
		}
		assertValidGrid(t, g)
	}
}

func TestRandomGrid_UsesAllFaces(t *testing.T) {
	counts := RandomGrid(60).Counts()
	for face := 1; face <= 6; face++ {
		if counts[face] == 0 {
			t.Errorf("face %d never drawn in 3600 cells", face)
		}
	}
}

func TestRandomGridSeeded(t *testing.T) {
	a := RandomGridSeeded(25, 42)
	b := RandomGridSeeded(25, 42)
	c := RandomGridSeeded(25, 43)

	assertValidGrid(t, a)
	if !reflect.DeepEqual(a, b) {
		t.Error("equal seeds produced different grids")
	}
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical grids")
	}
}

func TestSampleGrid(t *testing.T) {
	g := SampleGrid(10)
	assertValidGrid(t, g)

	if g.Rows() != 10 || g.Cols() != 10 {
		t.Fatalf("got %dx%d, want 10x10", g.Cols(), g.Rows())
	}
	// floor(((r+c)/(2*size))*6)+1
	checks := []struct{ r, c, want int }{
		{0, 0, 1},
		{0, 4, 2},
		{5, 5, 4},
		{4, 9, 4},
		{9, 9, 6},
	}
	for _, ch := range checks {
		if got := g[ch.r][ch.c]; got != ch.want {
			t.Errorf("cell (%d,%d): got %d, want %d", ch.r, ch.c, got, ch.want)
		}
	}

	if !reflect.DeepEqual(g, SampleGrid(10)) {
		t.Error("SampleGrid is not deterministic")
	}
}

func TestSampleGrid_DiagonalNonDecreasing(t *testing.T) {
	g := SampleGrid(33)
	for r := 0; r < g.Rows(); r++ {
		for c := 1; c < g.Cols(); c++ {
			if g[r][c] < g[r][c-1] {
				t.Fatalf("row %d decreases at col %d", r, c)
			}
		}
	}
}
