package mosaic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultContrast is the contrast percentage offered by default. It is
	// not neutral; see ContrastFactor.
	DefaultContrast = 50

	// DefaultSupersample is the resolution multiplier of the intermediate
	// raster used before the final downsample.
	DefaultSupersample = 2

	maxSupersample = 4
)

// SizeSpec selects how the grid extent is chosen: either an explicit number
// of cells along the image's long axis, or automatic sizing from a fixed
// cell budget. The zero value is Auto.
type SizeSpec struct {
	explicit bool
	n        int
}

// Auto returns a SizeSpec that derives the grid extent from the image.
func Auto() SizeSpec {
	return SizeSpec{}
}

// Explicit returns a SizeSpec with n cells along the image's long axis.
func Explicit(n int) SizeSpec {
	return SizeSpec{explicit: true, n: n}
}

// IsAuto reports whether s requests automatic sizing.
func (s SizeSpec) IsAuto() bool {
	return !s.explicit
}

// Dimension returns the explicit extent and true, or 0 and false for Auto.
func (s SizeSpec) Dimension() (int, bool) {
	return s.n, s.explicit
}

func (s SizeSpec) String() string {
	if !s.explicit {
		return "auto"
	}
	return strconv.Itoa(s.n)
}

// ParseSizeSpec parses "auto" (case-insensitive, or empty) or a decimal
// integer.
func ParseSizeSpec(v string) (SizeSpec, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "auto") {
		return Auto(), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return SizeSpec{}, fmt.Errorf("invalid grid size %q: want an integer or \"auto\"", v)
	}
	return Explicit(n), nil
}

// MarshalJSON encodes Auto as the string "auto" and explicit sizes as numbers.
func (s SizeSpec) MarshalJSON() ([]byte, error) {
	if !s.explicit {
		return []byte(`"auto"`), nil
	}
	return []byte(strconv.Itoa(s.n)), nil
}

// UnmarshalJSON accepts a number, a numeric string, "auto", or null.
func (s *SizeSpec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Auto()
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, err := ParseSizeSpec(str)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid grid size %s: want an integer or \"auto\"", string(data))
	}
	*s = Explicit(roundInt(f))
	return nil
}

// Mode selects how adjusted brightness is turned into dice faces.
type Mode int

const (
	// ModeSixBand maps brightness to all six faces in equal-width bands.
	ModeSixBand Mode = iota

	// ModeBinary maps brightness to face 1 (light) or face 6 (dark) only.
	ModeBinary

	// ModeHalftone thresholds the supersampled raster to pure black and
	// white, averages it down to the grid and then applies the six bands.
	// Regions come out flat with graded edges.
	ModeHalftone
)

func (m Mode) String() string {
	switch m {
	case ModeBinary:
		return "binary"
	case ModeHalftone:
		return "halftone"
	default:
		return "six-band"
	}
}

// ParseMode parses a mode name. The empty string selects ModeSixBand.
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "six-band", "sixband", "six":
		return ModeSixBand, nil
	case "binary", "threshold":
		return ModeBinary, nil
	case "halftone":
		return ModeHalftone, nil
	default:
		return ModeSixBand, fmt.Errorf("unknown mode %q: want six-band, binary or halftone", v)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Settings controls a single conversion. The zero value is usable: automatic
// size, contrast 0 (identity), six-band mode, default supersampling and
// default bounds.
type Settings struct {
	// Size selects the grid extent.
	Size SizeSpec `json:"grid_size"`

	// Contrast is a percentage in [0,100]; values outside are clamped.
	Contrast int `json:"contrast"`

	// Mode selects the quantizer.
	Mode Mode `json:"mode"`

	// Supersample is the multiplier of the intermediate raster, in [1,4].
	// Zero selects DefaultSupersample.
	Supersample int `json:"supersample,omitempty"`

	// Square, when positive, forces an exact Square x Square output: missing
	// cells are padded with face 1 and excess cells are dropped.
	Square int `json:"square,omitempty"`

	// Bounds limits each grid axis. The zero value selects DefaultBounds.
	Bounds Bounds `json:"bounds"`
}

// DefaultSettings returns automatic sizing at the default contrast in
// six-band mode.
func DefaultSettings() Settings {
	return Settings{
		Size:        Auto(),
		Contrast:    DefaultContrast,
		Mode:        ModeSixBand,
		Supersample: DefaultSupersample,
		Bounds:      DefaultBounds,
	}
}

// Normalize returns a copy of s with every field clamped into its valid
// range. Out-of-range values are corrected, never rejected.
func (s Settings) Normalize() Settings {
	s.Contrast = clampInt(s.Contrast, 0, 100)
	if n, ok := s.Size.Dimension(); ok && n < 1 {
		s.Size = Explicit(1)
	}
	switch s.Mode {
	case ModeSixBand, ModeBinary, ModeHalftone:
	default:
		s.Mode = ModeSixBand
	}
	if s.Supersample == 0 {
		s.Supersample = DefaultSupersample
	}
	s.Supersample = clampInt(s.Supersample, 1, maxSupersample)
	s.Bounds = s.Bounds.normalize()
	if s.Square < 0 {
		s.Square = 0
	}
	if s.Square > 0 {
		s.Square = s.Bounds.clamp(s.Square)
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
