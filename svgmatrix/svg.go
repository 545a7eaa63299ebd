package svgmatrix

import (
	"math"

	"github.com/benoitkugler/svgmvg/svgunit"
)

// DefaultEpsilon is the tolerance used to detect
// simple transforms.
const DefaultEpsilon = 1e-6

// SVGTransform returns the simplest SVG transform function equivalent to m:
// an empty string for the identity, then scale(), rotate() or translate()
// when possible, and matrix() otherwise.
func (m Matrix2D) SVGTransform(eps float64) string {
	f := svgunit.FormatNumber
	if near(m.E, 0, eps) && near(m.F, 0, eps) {
		if near(m.B, 0, eps) && near(m.C, 0, eps) {
			if near(m.A, 1, eps) && near(m.D, 1, eps) {
				return ""
			}
			return "scale(" + f(m.A) + "," + f(m.D) + ")"
		}
		if near(m.A, m.D, eps) && near(m.B, -m.C, eps) && near(m.A*m.A+m.B*m.B, 1, eps) {
			theta := math.Atan2(m.B, m.A) * 180 / math.Pi
			return "rotate(" + f(theta) + ")"
		}
	} else if near(m.A, 1, eps) && near(m.B, 0, eps) && near(m.C, 0, eps) && near(m.D, 1, eps) {
		return "translate(" + f(m.E) + "," + f(m.F) + ")"
	}
	return "matrix(" + f(m.A) + " " + f(m.B) + " " + f(m.C) + " " +
		f(m.D) + " " + f(m.E) + " " + f(m.F) + ")"
}
