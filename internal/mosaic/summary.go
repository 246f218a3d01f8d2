package mosaic

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultDieSizeCm is the edge length of a standard 16 mm die.
	DefaultDieSizeCm = 1.6

	// DefaultPricePerDie is the unit price used for cost estimates.
	DefaultPricePerDie = 0.10

	// DefaultDicePerMinute is the assumed placement rate for time estimates.
	DefaultDicePerMinute = 10
)

// SummaryOptions parameterizes Summarize. Zero fields select the defaults.
type SummaryOptions struct {
	DieSizeCm     float64
	PricePerDie   float64
	DicePerMinute float64
}

// Summary describes what it takes to build a grid with physical dice.
type Summary struct {
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	TotalDice  int         `json:"total_dice"`
	BlackDice  int         `json:"black_dice"` // cells showing face 6
	WhiteDice  int         `json:"white_dice"` // cells showing face 1
	FaceCounts map[int]int `json:"face_counts"`

	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`

	EstimatedHours   int     `json:"estimated_hours"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	EstimatedCost    float64 `json:"estimated_cost"`

	MeanFace   float64 `json:"mean_face"`
	FaceStdDev float64 `json:"face_std_dev"`
}

// Summarize counts faces and estimates the physical size, build time and
// cost of g.
func Summarize(g Grid, opts SummaryOptions) Summary {
	if opts.DieSizeCm <= 0 {
		opts.DieSizeCm = DefaultDieSizeCm
	}
	if opts.PricePerDie <= 0 {
		opts.PricePerDie = DefaultPricePerDie
	}
	if opts.DicePerMinute <= 0 {
		opts.DicePerMinute = DefaultDicePerMinute
	}

	counts := g.Counts()
	faces := make(map[int]int, FaceDarkest)
	values := make([]float64, 0, g.Rows()*g.Cols())
	for face := FaceLightest; face <= FaceDarkest; face++ {
		faces[face] = counts[face]
	}
	for _, row := range g {
		for _, v := range row {
			values = append(values, float64(v))
		}
	}

	total := len(values)
	minutes := float64(total) / opts.DicePerMinute

	s := Summary{
		Rows:             g.Rows(),
		Cols:             g.Cols(),
		TotalDice:        total,
		BlackDice:        counts[FaceDarkest],
		WhiteDice:        counts[FaceLightest],
		FaceCounts:       faces,
		WidthCm:          round2(float64(g.Cols()) * opts.DieSizeCm),
		HeightCm:         round2(float64(g.Rows()) * opts.DieSizeCm),
		EstimatedHours:   int(math.Floor(minutes / 60)),
		EstimatedMinutes: int(math.Floor(math.Mod(minutes, 60))),
		EstimatedCost:    round2(float64(total) * opts.PricePerDie),
	}
	if total > 0 {
		mean, std := stat.MeanStdDev(values, nil)
		if math.IsNaN(std) {
			std = 0
		}
		s.MeanFace = round2(mean)
		s.FaceStdDev = round2(std)
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
