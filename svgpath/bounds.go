package svgpath

import (
	"math"

	"github.com/benoitkugler/svgmvg/svgunit"
	"golang.org/x/image/math/fixed"
)

// compute the tight bounding box of a path, needed when using gradient with objectBoundingBox

func fixedToF(p fixed.Point26_6) (x, y float64) {
	return float64(p.X) / 64, float64(p.Y) / 64
}

// segment is one curve of a path, of order 1 to 3
type segment interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluate(t float64) (x, y float64)
}

type lineSegment [2]fixed.Point26_6

func (lineSegment) criticalPoints() (tX, tY []float64) { return nil, nil }

func (l lineSegment) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedToF(l[0])
	p1x, p1y := fixedToF(l[1])
	return (p1x-p0x)*t + p0x, (p1y-p0y)*t + p0y
}

type quadSegment [3]fixed.Point26_6

// quadratic polynomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadSegment) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedToF(cu[0])
	p1x, p1y := fixedToF(cu[1])
	p2x, p2y := fixedToF(cu[2])
	aX, bX := quadraticDerivative(p0x, p1x, p2x)
	aY, bY := quadraticDerivative(p0y, p1y, p2y)
	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadSegment) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedToF(cu[0])
	p1x, p1y := fixedToF(cu[1])
	p2x, p2y := fixedToF(cu[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicSegment [4]fixed.Point26_6

// cubic polynomial
// x = At^3 + Bt^2 + Ct + D
// where
// A = p3 - 3p2 + 3p1 - p0
// B = 3p2 - 6p1 + 3p0
// C = 3p1 - 3p0
// D = p0
func bezierCubic(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		p0
}

// derivative as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

func (cu cubicSegment) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedToF(cu[0])
	p1x, p1y := fixedToF(cu[1])
	p2x, p2y := fixedToF(cu[2])
	p3x, p3y := fixedToF(cu[3])
	aX, bX, cX := cubicDerivative(p0x, p1x, p2x, p3x)
	aY, bY, cY := cubicDerivative(p0y, p1y, p2y, p3y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicSegment) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedToF(cu[0])
	p1x, p1y := fixedToF(cu[1])
	p2x, p2y := fixedToF(cu[2])
	p3x, p3y := fixedToF(cu[3])
	return bezierCubic(p0x, p1x, p2x, p3x, t), bezierCubic(p0y, p1y, p2y, p3y, t)
}

// extent accumulates the extreme points
type extent struct {
	minX, minY, maxX, maxY float64
}

func newExtent() extent {
	return extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (e *extent) add(x, y float64) {
	e.minX, e.maxX = math.Min(e.minX, x), math.Max(e.maxX, x)
	e.minY, e.maxY = math.Min(e.minY, y), math.Max(e.maxY, y)
}

func (e *extent) addSegment(s segment) {
	tX, tY := s.criticalPoints()
	// begin and end points, and the extrema in between
	for _, t := range append(append(tX, 0, 1), tY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		e.add(s.evaluate(t))
	}
}

// Bounds returns the tight bounding box of the path,
// including the extrema of the curves.
// The empty path has empty bounds.
func (p Path) Bounds() svgunit.Bounds {
	ext := newExtent()
	var current, start fixed.Point26_6
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current, start = fixed.Point26_6(op), fixed.Point26_6(op)
			ext.add(fixedToF(current))
		case LineTo:
			ext.addSegment(lineSegment{current, fixed.Point26_6(op)})
			current = fixed.Point26_6(op)
		case QuadTo:
			ext.addSegment(quadSegment{current, op[0], op[1]})
			current = op[1]
		case CubicTo:
			ext.addSegment(cubicSegment{current, op[0], op[1], op[2]})
			current = op[2]
		case Close:
			current = start
		}
	}
	if math.IsInf(ext.minX, 1) {
		return svgunit.Bounds{}
	}
	return svgunit.Bounds{X: ext.minX, Y: ext.minY, W: ext.maxX - ext.minX, H: ext.maxY - ext.minY}
}
