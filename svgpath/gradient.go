package svgpath

import (
	"image/color"
	"sort"

	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds paremater constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// ParseGradientUnits maps the gradient-units directive value.
// Unknown values select ObjectBoundingBox.
func ParseGradientUnits(s string) GradientUnits {
	switch s {
	case "userSpaceOnUse", "userspaceonuse":
		return UserSpaceOnUse
	default:
		return ObjectBoundingBox
	}
}

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop represents a stop in the SVG 2.0 gradient specification
type GradStop struct {
	StopColor color.Color
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG 2.0 gradient
type Gradient struct {
	Direction gradientDirecter
	Stops     []GradStop
	Bounds    svgunit.Bounds
	Matrix    svgmatrix.Matrix2D
	Spread    SpreadMethod
	Units     GradientUnits
}

// radial or linear
type gradientDirecter interface {
	isRadial() bool
}

// x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// IsRadial returns true for radial gradients.
func (g Gradient) IsRadial() bool {
	return g.Direction != nil && g.Direction.isRadial()
}

// AddStop inserts a stop, keeping the stops sorted by offset.
// Offsets are clamped to [0, 1].
func (g *Gradient) AddStop(c color.Color, offset, opacity float64) {
	if offset < 0 {
		offset = 0
	} else if offset > 1 {
		offset = 1
	}
	i := sort.Search(len(g.Stops), func(i int) bool { return g.Stops[i].Offset > offset })
	g.Stops = append(g.Stops, GradStop{})
	copy(g.Stops[i+1:], g.Stops[i:])
	g.Stops[i] = GradStop{StopColor: c, Offset: offset, Opacity: opacity}
}

// Pattern is the paint of a path: either PlainColor or Gradient.
type Pattern interface {
	isPattern()
}

// PlainColor is a uniform paint.
type PlainColor struct {
	color.NRGBA
}

// NewPlainColor returns the (non premultiplied) color r, g, b, a.
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{color.NRGBA{R: r, G: g, B: b, A: a}}
}

func (PlainColor) isPattern() {}
func (Gradient) isPattern() {}
