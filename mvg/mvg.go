// Package mvg implements the textual directive language
// bridging the SVG parser and the consumers of the drawing:
// an encoder used by the parser, and an interpreter which
// validates the directives and forwards them to a Handler
// (such as an SVG writer or a painter).
//
// A stream is a sequence of lines `keyword arg1 arg2 ...`,
// where arguments are numbers, points `x,y`, words or
// quoted strings.
package mvg

import (
	"strings"

	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// PrimitiveKind identifies a drawing primitive.
type PrimitiveKind uint8

const (
	PointPrimitive PrimitiveKind = iota
	LinePrimitive
	RectanglePrimitive
	RoundRectanglePrimitive
	ArcPrimitive
	EllipsePrimitive
	CirclePrimitive
	PolylinePrimitive
	PolygonPrimitive
	BezierPrimitive
	PathPrimitive
	ImagePrimitive
	TextPrimitive
	ColorPrimitive
	AlphaPrimitive
)

var primitiveNames = [...]string{
	PointPrimitive:          "point",
	LinePrimitive:           "line",
	RectanglePrimitive:      "rectangle",
	RoundRectanglePrimitive: "roundRectangle",
	ArcPrimitive:            "arc",
	EllipsePrimitive:        "ellipse",
	CirclePrimitive:         "circle",
	PolylinePrimitive:       "polyline",
	PolygonPrimitive:        "polygon",
	BezierPrimitive:         "bezier",
	PathPrimitive:           "path",
	ImagePrimitive:          "image",
	TextPrimitive:           "text",
	ColorPrimitive:          "color",
	AlphaPrimitive:          "alpha",
}

// String returns the keyword of the primitive.
func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return "<unknown PrimitiveKind>"
}

// arity describes the number of points accepted by a primitive:
// between min and max (max < 0 means unbounded).
type arity struct{ min, max int }

func (a arity) accept(n int) bool { return n >= a.min && (a.max < 0 || n <= a.max) }

var arities = [...]arity{
	PointPrimitive:          {1, 1},
	LinePrimitive:           {2, 2},
	RectanglePrimitive:      {2, 2},
	RoundRectanglePrimitive: {3, 3},
	ArcPrimitive:            {3, 3},
	EllipsePrimitive:        {2, 3}, // center, radii [, start and end angles]
	CirclePrimitive:         {2, 2},
	PolylinePrimitive:       {2, -1},
	PolygonPrimitive:        {3, -1},
	BezierPrimitive:         {3, -1},
	PathPrimitive:           {0, -1},
	ImagePrimitive:          {2, 2},
	TextPrimitive:           {1, 1},
	ColorPrimitive:          {1, 1},
	AlphaPrimitive:          {1, 1},
}

// primitiveByKeyword maps the lower cased keywords to primitives.
var primitiveByKeyword = map[string]PrimitiveKind{
	"point":          PointPrimitive,
	"line":           LinePrimitive,
	"rectangle":      RectanglePrimitive,
	"roundrectangle": RoundRectanglePrimitive,
	"arc":            ArcPrimitive,
	"ellipse":        EllipsePrimitive,
	"circle":         CirclePrimitive,
	"polyline":       PolylinePrimitive,
	"polygon":        PolygonPrimitive,
	"bezier":         BezierPrimitive,
	"path":           PathPrimitive,
	"image":          ImagePrimitive,
	"text":           TextPrimitive,
	"tspan":          TextPrimitive,
	"color":          ColorPrimitive,
	"alpha":          AlphaPrimitive,
}

// PaintMethod is the flood mode of the Color and Alpha primitives.
type PaintMethod uint8

const (
	PointMethod PaintMethod = iota
	ReplaceMethod
	FloodfillMethod
	FillToBorderMethod
	ResetMethod
)

func (m PaintMethod) String() string {
	switch m {
	case PointMethod:
		return "point"
	case ReplaceMethod:
		return "replace"
	case FloodfillMethod:
		return "floodfill"
	case FillToBorderMethod:
		return "filltoborder"
	case ResetMethod:
		return "reset"
	default:
		return "<unknown PaintMethod>"
	}
}

func parsePaintMethod(s string) (PaintMethod, bool) {
	switch strings.ToLower(s) {
	case "point":
		return PointMethod, true
	case "replace":
		return ReplaceMethod, true
	case "floodfill":
		return FloodfillMethod, true
	case "filltoborder":
		return FillToBorderMethod, true
	case "reset":
		return ResetMethod, true
	}
	return FloodfillMethod, false
}

// Point is a point in user space.
type Point struct{ X, Y float64 }

// Primitive is one drawing instruction.
type Primitive struct {
	Kind   PrimitiveKind
	Points []Point
	// Text is the payload of the Text primitive, the path data of
	// the Path primitive, and the reference of the Image primitive.
	Text string
	// Compose is the composite operator of the Image primitive.
	Compose string
	Method  PaintMethod // for Color and Alpha
}

// ScopeKind identifies the kind of a push/pop scope.
type ScopeKind uint8

const (
	GraphicContext ScopeKind = iota
	ClipPathScope
	DefsScope
	GradientScope
	MaskScope
	PatternScope
	SymbolScope
	ClassScope
)

var scopeNames = [...]string{
	GraphicContext: "graphic-context",
	ClipPathScope:  "clip-path",
	DefsScope:      "defs",
	GradientScope:  "gradient",
	MaskScope:      "mask",
	PatternScope:   "pattern",
	SymbolScope:    "symbol",
	ClassScope:     "class",
}

// String returns the keyword used in push and pop directives.
func (s ScopeKind) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "<unknown ScopeKind>"
}

func parseScopeKind(s string) (ScopeKind, bool) {
	s = strings.ToLower(s)
	for i, name := range scopeNames {
		if name == s {
			return ScopeKind(i), true
		}
	}
	return 0, false
}

// GradientKind is either linear or radial.
type GradientKind uint8

const (
	LinearGradient GradientKind = iota
	RadialGradient
)

func (g GradientKind) String() string {
	if g == RadialGradient {
		return "radial"
	}
	return "linear"
}

// GradientDefinition is the geometry given when
// a gradient scope is opened.
type GradientDefinition struct {
	Kind GradientKind
	// Linear: segment (X1, Y1) -> (X2, Y2)
	X1, Y1, X2, Y2 float64
	// Radial: center, focus and radius
	CX, CY, FX, FY, R float64
}

// Scope is an opened push/pop scope.
type Scope struct {
	Kind     ScopeKind
	ID       string             // optional for graphic-context
	Gradient GradientDefinition // for GradientScope
	Bounds   svgunit.Bounds     // for PatternScope
}

// Handler consumes the validated directives.
// An error returned by a method aborts the interpretation.
type Handler interface {
	// Comment is called for lines starting with '#'.
	Comment(text string) error
	Push(scope Scope) error
	// Pop closes the innermost scope, whose kind is given.
	Pop(kind ScopeKind) error
	// Style is called for the paint and text properties,
	// such as ("fill", "red") or ("stroke-dasharray", "5,2").
	Style(name, value string) error
	// Transform is called for affine, translate, scale, rotate
	// and skew directives, with the local matrix to compose
	// with the current one.
	Transform(m svgmatrix.Matrix2D) error
	StopColor(color, offset string) error
	Viewbox(b svgunit.Bounds) error
	// Use references a shared element (clip path, symbol...).
	Use(href string) error
	Primitive(p Primitive) error
}
