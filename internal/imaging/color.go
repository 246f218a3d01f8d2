package imaging

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

// FaceColors maps a die face (1..6) to a hex color like "#DDDDDD".
//
// A FaceColors value may be partial; Color falls back to the default palette
// for faces that are missing or unparsable.
type FaceColors map[int]string

var defaultFaceHex = [7]string{
	1: "#FFFFFF",
	2: "#DDDDDD",
	3: "#BBBBBB",
	4: "#888888",
	5: "#555555",
	6: "#222222",
}

// DefaultFaceColors returns a fresh copy of the standard white-to-black
// palette.
func DefaultFaceColors() FaceColors {
	fc := make(FaceColors, 6)
	for face := mosaic.FaceLightest; face <= mosaic.FaceDarkest; face++ {
		fc[face] = defaultFaceHex[face]
	}
	return fc
}

// ParseFaceColors validates user supplied colors keyed by face number as a
// string ("1".."6"), the shape they arrive in from JSON. Faces not present
// in the input keep their default color. Hex values are normalized to
// upper-case "#RRGGBB".
func ParseFaceColors(in map[string]string) (FaceColors, error) {
	fc := DefaultFaceColors()
	for k, v := range in {
		face, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || face < mosaic.FaceLightest || face > mosaic.FaceDarkest {
			return nil, fmt.Errorf("invalid face %q: must be 1-6", k)
		}
		c, err := parseHex(v)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", face, err)
		}
		fc[face] = hexOf(c)
	}
	return fc, nil
}

// Color returns the color for face. Missing or invalid entries fall back to
// the default palette; faces outside 1..6 render white.
func (fc FaceColors) Color(face int) colorful.Color {
	if v, ok := fc[face]; ok {
		if c, err := parseHex(v); err == nil {
			return c
		}
	}
	if face < mosaic.FaceLightest || face > mosaic.FaceDarkest {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	c, _ := colorful.Hex(defaultFaceHex[face])
	return c
}

// Hex returns the normalized hex string for face.
func (fc FaceColors) Hex(face int) string {
	return hexOf(fc.Color(face))
}

// Strings converts fc to the string-keyed form used on the wire.
func (fc FaceColors) Strings() map[string]string {
	out := make(map[string]string, len(fc))
	faces := make([]int, 0, len(fc))
	for face := range fc {
		faces = append(faces, face)
	}
	sort.Ints(faces)
	for _, face := range faces {
		out[strconv.Itoa(face)] = fc.Hex(face)
	}
	return out
}

// PipColor returns the pip color that contrasts with a face color: black on
// light faces and white on dark ones.
func PipColor(face colorful.Color) color.Color {
	r, g, b := face.Clamped().RGB255()
	if mosaic.LegacyLuminance(r, g, b) > 128 {
		return color.Black
	}
	return color.White
}

func parseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, fmt.Errorf("empty color string")
	}
	if s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return c, nil
}

func hexOf(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}
