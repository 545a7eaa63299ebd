// Resolves SVG length expressions (bare numbers, percentages,
// physical and font relative units) to user space values.
package svgunit

import (
	"math"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2/strconv"
)

// DefaultDensity is the number of user units per inch.
const DefaultDensity = 96.

// Epsilon guards the divisions by a view box dimension.
const Epsilon = 1e-12

// Bounds defines a bounding box, such as a view box
// or the extent of an element.
type Bounds struct{ X, Y, W, H float64 }

// Axis selects which dimension of the view box a percentage
// is relative to.
type Axis int8

const (
	Vertical   Axis = -1
	Diagonal   Axis = 0 // also used for unsigned scalars (angles, font sizes)
	Horizontal Axis = 1
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "Vertical"
	case Diagonal:
		return "Diagonal"
	case Horizontal:
		return "Horizontal"
	default:
		return "<unknown Axis>"
	}
}

// UnitClass records how a value has been resolved.
type UnitClass uint8

const (
	Pixel UnitClass = iota // bare number or px
	PercentWidth
	PercentHeight
	PercentDiagonal
	Physical     // cm, in, mm, pc, pt
	FontRelative // em, ex
)

func (u UnitClass) String() string {
	switch u {
	case Pixel:
		return "Pixel"
	case PercentWidth:
		return "PercentWidth"
	case PercentHeight:
		return "PercentHeight"
	case PercentDiagonal:
		return "PercentDiagonal"
	case Physical:
		return "Physical"
	case FontRelative:
		return "FontRelative"
	default:
		return "<unknown UnitClass>"
	}
}

// Value is a resolved length, with its provenance.
type Value struct {
	Raw   string    // the token as found in the source
	Value float64   // resolved user space value
	Class UnitClass // how Value was computed
	Unit  string    // unit suffix, lower cased, empty for bare numbers
}

// Resolver holds the context needed to convert lengths:
// the current view box, font size and unit scale.
type Resolver struct {
	ViewBox   Bounds
	PointSize float64
	// Scale multiplies physical units. It accumulates
	// the expansion of nested scale(...) transforms.
	Scale float64
}

// NewResolver returns a resolver with a 12pt font and unit scale.
func NewResolver(viewBox Bounds) Resolver {
	return Resolver{ViewBox: viewBox, PointSize: 12, Scale: 1}
}

// ParseNumber reads the longest numeric prefix of s, after
// optional leading whitespace, and returns its value
// and the number of bytes consumed (0 if s does not start with a number).
func ParseNumber(s string) (float64, int) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	f, n := parse.ParseFloat([]byte(s[i:]))
	if n == 0 {
		return 0, 0
	}
	return f, i + n
}

// Number is a best effort version of ParseNumber, returning
// 0 for garbage.
func Number(s string) float64 {
	f, _ := ParseNumber(s)
	return f
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// Length is a shortcut for r.Resolve(raw, axis).Value
func (r Resolver) Length(raw string, axis Axis) float64 {
	return r.Resolve(raw, axis).Value
}

// Resolve converts the length token `raw`.
// Malformed tokens resolve to their numeric prefix (0 if none),
// and never trigger an error.
func (r Resolver) Resolve(raw string, axis Axis) Value {
	out := Value{Raw: raw}
	v, n := ParseNumber(raw)
	rest := strings.TrimSpace(raw[n:])
	scale := r.Scale
	if scale == 0 {
		scale = 1
	}

	if n > 0 && strings.HasPrefix(rest, "%") {
		out.Unit = "%"
		switch {
		case axis > 0:
			out.Class = PercentWidth
			if r.ViewBox.W < Epsilon {
				return out
			}
			out.Value = r.ViewBox.W * v / 100
		case axis < 0:
			out.Class = PercentHeight
			if r.ViewBox.H < Epsilon {
				return out
			}
			out.Value = r.ViewBox.H * v / 100
		default:
			out.Class = PercentDiagonal
			out.Value = math.Hypot(v-r.ViewBox.W, v-r.ViewBox.H) / math.Sqrt2 / 100
		}
		return out
	}

	unit := strings.ToLower(rest)
	if len(unit) > 2 {
		unit = unit[:2]
	}
	switch unit {
	case "cm":
		out.Value, out.Class = DefaultDensity*scale/2.54*v, Physical
	case "em":
		out.Value, out.Class = r.PointSize*v, FontRelative
	case "ex":
		out.Value, out.Class = r.PointSize*v/2, FontRelative
	case "in":
		out.Value, out.Class = DefaultDensity*scale*v, Physical
	case "mm":
		out.Value, out.Class = DefaultDensity*scale/25.4*v, Physical
	case "pc":
		out.Value, out.Class = DefaultDensity*scale/6*v, Physical
	case "pt":
		out.Value, out.Class = scale*v, Physical
	default: // px or nothing
		out.Value, out.Class = v, Pixel
		if unit != "px" {
			unit = ""
		}
	}
	out.Unit = unit
	return out
}

var namedFontSizes = map[string]float64{
	"xx-small": 6.144,
	"x-small":  7.68,
	"small":    9.6,
	"medium":   12,
	"large":    14.4,
	"x-large":  17.28,
	"xx-large": 20.736,
}

// NamedFontSize returns the point size of the CSS absolute size keyword `name`.
func NamedFontSize(name string) (float64, bool) {
	size, ok := namedFontSizes[name]
	return size, ok
}

// FormatNumber returns the shortest representation of v
// which parses back to v.
func FormatNumber(v float64) string {
	if v == 0 { // avoid -0
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
