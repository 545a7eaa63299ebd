// Implements an abstract representation of
// paths, which can then be consumed
// by painting drivers.
// Every drawing primitive is reduced to a Path,
// made of a few basic operations.
package svgpath

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/svgmvg/svgmatrix"
	"golang.org/x/image/math/fixed"
)

// Adder is implemented by the types accumulating path commands,
// such as rasterizers.
type Adder interface {
	// Start starts a new curve at the given point.
	Start(a fixed.Point26_6)
	// Line adds a line segment to the path
	Line(b fixed.Point26_6)
	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)
	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)
	// Closes the path to the start point if closeLoop is true
	Stop(closeLoop bool)
}

// Operation groups the different path commands
type Operation interface {
	// add itself to `q`, after applying the transform `m`
	addTo(q Adder, m svgmatrix.Matrix2D)
}

type MoveTo fixed.Point26_6

type LineTo fixed.Point26_6

type QuadTo [2]fixed.Point26_6

type CubicTo [3]fixed.Point26_6

type Close struct{}

func (op MoveTo) addTo(q Adder, m svgmatrix.Matrix2D) {
	q.Stop(false) // implicit close if currently in path.
	q.Start(m.TFixed(fixed.Point26_6(op)))
}

func (op LineTo) addTo(q Adder, m svgmatrix.Matrix2D) {
	q.Line(m.TFixed(fixed.Point26_6(op)))
}

func (op QuadTo) addTo(q Adder, m svgmatrix.Matrix2D) {
	q.QuadBezier(m.TFixed(op[0]), m.TFixed(op[1]))
}

func (op CubicTo) addTo(q Adder, m svgmatrix.Matrix2D) {
	q.CubeBezier(m.TFixed(op[0]), m.TFixed(op[1]), m.TFixed(op[2]))
}

func (Close) addTo(q Adder, _ svgmatrix.Matrix2D) { q.Stop(true) }

// Path describes a sequence of basic operations.
// Higher-level shapes may be reduced to a path.
type Path []Operation

func fixedString(p fixed.Point26_6) string {
	return fmt.Sprintf("%4.3f,%4.3f", float32(p.X)/64, float32(p.Y)/64)
}

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = "M" + fixedString(fixed.Point26_6(op))
		case LineTo:
			chunks[i] = "L" + fixedString(fixed.Point26_6(op))
		case QuadTo:
			chunks[i] = "Q" + fixedString(op[0]) + "," + fixedString(op[1])
		case CubicTo:
			chunks[i] = "C" + fixedString(op[0]) + "," + fixedString(op[1]) + "," + fixedString(op[2])
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// AddTo sends the operations of p to q, transformed by m.
// The last subpath is left open: callers should call q.Stop
// when they are done.
func (p Path) AddTo(q Adder, m svgmatrix.Matrix2D) {
	for _, op := range p {
		op.addTo(q, m)
	}
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo{a.X, a.Y})
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo{b.X, b.Y})
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

var _ Adder = (*Path)(nil)
