package mosaic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the first line written by WriteCSV.
var csvHeader = []string{"row", "column", "value"}

// WriteCSV writes g as "row,column,value" lines, row-major, with 1-based
// coordinates and a header line.
func WriteCSV(w io.Writer, g Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, cell := range g.Cells() {
		record := []string{
			strconv.Itoa(cell.Row),
			strconv.Itoa(cell.Col),
			strconv.Itoa(cell.Value),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d col %d: %w", cell.Row, cell.Col, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
