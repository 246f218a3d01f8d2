package mosaic

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRectangular is returned by Grid.Validate for jagged grids.
	ErrNotRectangular = errors.New("grid rows have different lengths")

	// ErrFaceOutOfRange is returned by Grid.Validate for cells outside 1..6.
	ErrFaceOutOfRange = errors.New("grid cell outside dice face range")
)

// Grid is a row-major grid of dice faces. Grids produced by this package are
// rectangular and hold only values 1 through 6.
type Grid [][]int

// Cell is one grid cell in export form. Row and Col are 1-based.
type Cell struct {
	Row   int `json:"row"`
	Col   int `json:"column"`
	Value int `json:"value"`
}

// NewGrid returns a rows x cols grid filled with fill.
func NewGrid(rows, cols, fill int) Grid {
	rows, cols = max(rows, 0), max(cols, 0)
	g := make(Grid, rows)
	for r := range g {
		row := make([]int, cols)
		for c := range row {
			row[c] = fill
		}
		g[r] = row
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the length of the first row, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Validate checks that g is rectangular and every cell is a dice face.
func (g Grid) Validate() error {
	cols := g.Cols()
	for r, row := range g {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), cols, ErrNotRectangular)
		}
		for c, v := range row {
			if v < FaceLightest || v > FaceDarkest {
				return fmt.Errorf("cell (%d,%d) = %d: %w", r, c, v, ErrFaceOutOfRange)
			}
		}
	}
	return nil
}

// Square returns an n x n copy of g. Cells beyond g's extent are padded with
// FaceLightest and cells beyond n are dropped. g itself is not modified.
func (g Grid) Square(n int) Grid {
	n = max(n, 0)
	out := NewGrid(n, n, FaceLightest)
	for r := 0; r < n && r < len(g); r++ {
		copy(out[r], g[r])
	}
	return out
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]int(nil), row...)
	}
	return out
}

// Cells flattens g row-major into cells with 1-based coordinates.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Rows()*g.Cols())
	for r, row := range g {
		for c, v := range row {
			cells = append(cells, Cell{Row: r + 1, Col: c + 1, Value: v})
		}
	}
	return cells
}

// Counts returns how many cells show each face, indexed by face value.
// Index 0 counts cells outside the dice range.
func (g Grid) Counts() [7]int {
	var counts [7]int
	for _, row := range g {
		for _, v := range row {
			if v < FaceLightest || v > FaceDarkest {
				counts[0]++
				continue
			}
			counts[v]++
		}
	}
	return counts
}
