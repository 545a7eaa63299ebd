// Implements SVG style matrix transformations.
// https://developer.mozilla.org/en-US/docs/Web/SVG/Attribute/transform
package svgmatrix

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D is an affine transform, stored as
//	| A C E |
//	| B D F |
// that is (sx, rx, ry, sy, tx, ty) in MVG terms.
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the neutral transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a*b: the resulting transform applies b first, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Transform applies the matrix to the point (x1, y1).
func (m Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C + m.E
	y2 = x1*m.B + y1*m.D + m.F
	return
}

// TransformVector applies the linear part of the matrix, ignoring translation.
func (m Matrix2D) TransformVector(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C
	y2 = x1*m.B + y1*m.D
	return
}

// TFixed transforms a fixed.Point26_6 by the matrix
func (m Matrix2D) TFixed(a fixed.Point26_6) (b fixed.Point26_6) {
	b.X = fixed.Int26_6((float64(a.X)*m.A + float64(a.Y)*m.C) + m.E*64)
	b.Y = fixed.Int26_6((float64(a.X)*m.B + float64(a.Y)*m.D) + m.F*64)
	return
}

func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: x, D: y})
}

// SkewX skews along the x axis by theta radians.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, C: math.Tan(theta), D: 1})
}

// SkewY skews along the y axis by theta radians.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, B: math.Tan(theta), D: 1})
}

func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, D: 1, E: x, F: y})
}

// Rotate rotates by theta radians around the origin.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{A: cos, B: sin, C: -sin, D: cos})
}

// RotateAbout rotates by theta radians around (cx, cy). The pivot
// translation is folded into a single matrix.
func (a Matrix2D) RotateAbout(theta, cx, cy float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{
		A: cos, B: sin,
		C: -sin, D: cos,
		E: cx - cx*cos + cy*sin,
		F: cy - cx*sin - cy*cos,
	})
}

// Determinant returns AD - BC
func (m Matrix2D) Determinant() float64 { return m.A*m.D - m.B*m.C }

// Expansion returns the mean scaling factor of the transform,
// sqrt(|AD - BC|).
func (m Matrix2D) Expansion() float64 { return math.Sqrt(math.Abs(m.Determinant())) }

// Invert returns the inverse transform. Singular matrices
// are inverted to the identity.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity
	}
	inv := Matrix2D{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv
}

// Equal compares the coefficients with the given tolerance.
func (m Matrix2D) Equal(o Matrix2D, eps float64) bool {
	return near(m.A, o.A, eps) && near(m.B, o.B, eps) && near(m.C, o.C, eps) &&
		near(m.D, o.D, eps) && near(m.E, o.E, eps) && near(m.F, o.F, eps)
}

// IsIdentity returns true if m is the identity, up to eps.
func (m Matrix2D) IsIdentity(eps float64) bool { return m.Equal(Identity, eps) }

func near(a, b, eps float64) bool { return math.Abs(a-b) < eps }

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
