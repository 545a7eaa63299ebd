package svgmatrix

import (
	"errors"
	"math"
	"strings"

	"github.com/benoitkugler/svgmvg/svgunit"
)

// ErrParamMismatch is returned when a transform function has
// the wrong number of arguments, or is unknown.
var ErrParamMismatch = errors.New("param mismatch")

// Transform is the result of parsing a transform list.
type Transform struct {
	Matrix Matrix2D
	// Scale is the expansion of the last scale(...) function
	// of the list, or 0 if the list has no scale.
	Scale float64
}

// ParseTransform parses a transform list such as "translate(10 20) rotate(45)",
// composing the functions in document order (the resulting matrix
// applies the last function first, as required by SVG).
// Lengths in translate and scale are resolved with `lengths`.
// The matrix parsed so far is returned along with any error.
func ParseTransform(v string, lengths svgunit.Resolver) (Transform, error) {
	out := Transform{Matrix: Identity}
	tokens := svgunit.KeyValuePairs(v, '(', ')')
	for _, kv := range svgunit.Pairs(tokens) {
		m, scale, err := parseFunction(strings.ToLower(kv[0]), kv[1], lengths)
		if err != nil {
			return out, err
		}
		if scale != 0 {
			out.Scale = scale
		}
		out.Matrix = out.Matrix.Mult(m)
	}
	return out, nil
}

// splitArgs splits the arguments of a transform function,
// on commas and whitespace.
func splitArgs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

func numbers(args []string) []float64 {
	out := make([]float64, len(args))
	for i, a := range args {
		out[i] = svgunit.Number(a)
	}
	return out
}

func parseFunction(name, value string, lengths svgunit.Resolver) (m Matrix2D, scale float64, err error) {
	args := splitArgs(value)
	ln := len(args)
	switch name {
	case "matrix":
		if ln != 6 {
			return Identity, 0, ErrParamMismatch
		}
		p := numbers(args)
		m = Matrix2D{A: p[0], B: p[1], C: p[2], D: p[3], E: p[4], F: p[5]}
	case "translate":
		switch ln {
		case 1:
			m = Identity.Translate(lengths.Length(args[0], svgunit.Horizontal), 0)
		case 2:
			m = Identity.Translate(lengths.Length(args[0], svgunit.Horizontal),
				lengths.Length(args[1], svgunit.Vertical))
		default:
			return Identity, 0, ErrParamMismatch
		}
	case "scale":
		var sx, sy float64
		switch ln {
		case 1:
			sx = lengths.Length(args[0], svgunit.Horizontal)
			sy = sx
		case 2:
			sx = lengths.Length(args[0], svgunit.Horizontal)
			sy = lengths.Length(args[1], svgunit.Vertical)
		default:
			return Identity, 0, ErrParamMismatch
		}
		m = Identity.Scale(sx, sy)
		scale = m.Expansion()
	case "rotate":
		p := numbers(args)
		switch ln {
		case 1:
			m = Identity.Rotate(degToRad(math.Mod(p[0], 360)))
		case 3:
			m = Identity.RotateAbout(degToRad(math.Mod(p[0], 360)), p[1], p[2])
		default:
			return Identity, 0, ErrParamMismatch
		}
	case "skewx":
		if ln != 1 {
			return Identity, 0, ErrParamMismatch
		}
		m = Identity.SkewX(degToRad(math.Mod(svgunit.Number(args[0]), 360)))
	case "skewy":
		if ln != 1 {
			return Identity, 0, ErrParamMismatch
		}
		m = Identity.SkewY(degToRad(math.Mod(svgunit.Number(args[0]), 360)))
	default:
		return Identity, 0, ErrParamMismatch
	}
	return m, scale, nil
}
