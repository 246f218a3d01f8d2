package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/dice-mosaic-mcp/internal/imaging"
	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

type convertOptions struct {
	size     string
	contrast int
	mode     string
	square   int
	csvPath  string
	pngPath  string
	shading  bool
	cellSize int
}

func newConvertCmd() *cobra.Command {
	var o convertOptions
	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image file to a dice grid",
		Long: `Convert an image file to a dice grid and print it, one row per line.

An undecodable file produces a random grid and a warning instead of an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.OutOrStdout(), args[0], o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.size, "size", "auto", `cells along the long axis, or "auto"`)
	f.IntVar(&o.contrast, "contrast", mosaic.DefaultContrast, "contrast percentage, 0 to 100")
	f.StringVar(&o.mode, "mode", "six-band", "quantizer: six-band, binary or halftone")
	f.IntVar(&o.square, "square", 0, "force an N x N grid, padding with face 1")
	f.StringVar(&o.csvPath, "csv", "", "also write row,column,value CSV to this file")
	f.StringVar(&o.pngPath, "png", "", "also render the grid to this PNG file")
	f.BoolVar(&o.shading, "shading", false, "draw pips instead of numerals in the PNG")
	f.IntVar(&o.cellSize, "cell-size", imaging.DefaultCellSize, "PNG pixels per die")
	return cmd
}

func (o convertOptions) settings() (mosaic.Settings, error) {
	s := mosaic.DefaultSettings()
	size, err := mosaic.ParseSizeSpec(o.size)
	if err != nil {
		return s, err
	}
	mode, err := mosaic.ParseMode(o.mode)
	if err != nil {
		return s, err
	}
	s.Size = size
	s.Contrast = o.contrast
	s.Mode = mode
	s.Square = o.square
	return s.Normalize(), nil
}

func runConvert(w io.Writer, path string, o convertOptions) error {
	settings, err := o.settings()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	res := mosaic.ProcessImage(data, settings)
	if res.Fallback {
		slog.Warn("printing a random grid", "path", path, "reason", res.FallbackReason)
	}

	if o.csvPath != "" {
		if err := writeCSVFile(o.csvPath, res.Grid); err != nil {
			return err
		}
	}
	if o.pngPath != "" {
		opts := imaging.RenderOptions{UseShading: o.shading, CellSize: o.cellSize}
		if err := imaging.SavePNG(o.pngPath, res.Grid, opts); err != nil {
			return err
		}
	}

	return printGrid(w, res.Grid)
}

func writeCSVFile(path string, g mosaic.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}
	if err := mosaic.WriteCSV(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printGrid writes one line per row with faces separated by spaces.
func printGrid(w io.Writer, g mosaic.Grid) error {
	var sb strings.Builder
	for _, row := range g {
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func newSampleCmd() *cobra.Command {
	var (
		size   int
		random bool
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a placeholder grid",
		Long:  "Print the diagonal sample gradient, or a random grid with --random.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			size = mosaic.DefaultBounds.Clamp(size)
			var g mosaic.Grid
			switch {
			case !random:
				g = mosaic.SampleGrid(size)
			case cmd.Flags().Changed("seed"):
				g = mosaic.RandomGridSeeded(size, uint64(seed))
			default:
				g = mosaic.RandomGrid(size)
			}
			return printGrid(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().IntVar(&size, "size", 20, "edge length of the grid")
	cmd.Flags().BoolVar(&random, "random", false, "print uniformly random faces")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for --random; omit for a different grid each run")
	return cmd
}
