package svgmatrix

import (
	"math"
	"strings"
	"testing"

	"github.com/benoitkugler/svgmvg/svgunit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func assertMatrix(t *testing.T, want, got Matrix2D) {
	t.Helper()
	if !want.Equal(got, tol) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMult(t *testing.T) {
	m := Identity.Translate(10, 20).Scale(2, 3)
	x, y := m.Transform(1, 1)
	assert.InDelta(t, 12, x, tol)
	assert.InDelta(t, 23, y, tol)

	assertMatrix(t, m, Identity.Mult(m))
	assertMatrix(t, m, m.Mult(Identity))
}

func TestRotateAbout(t *testing.T) {
	theta := degToRad(30)
	seq := Identity.Translate(5, 7).Rotate(theta).Translate(-5, -7)
	single := Identity.RotateAbout(theta, 5, 7)
	assertMatrix(t, seq, single)

	// the pivot is fixed
	x, y := single.Transform(5, 7)
	assert.InDelta(t, 5, x, tol)
	assert.InDelta(t, 7, y, tol)
}

func TestSkew(t *testing.T) {
	m := Identity.SkewX(math.Pi / 4)
	x, y := m.Transform(0, 1)
	assert.InDelta(t, 1, x, tol)
	assert.InDelta(t, 1, y, tol)

	m = Identity.SkewY(math.Pi / 4)
	x, y = m.Transform(1, 0)
	assert.InDelta(t, 1, x, tol)
	assert.InDelta(t, 1, y, tol)
}

func TestInvert(t *testing.T) {
	m := Identity.Translate(3, -4).RotateAbout(0.3, 1, 2).Scale(2, 0.5)
	assertMatrix(t, Identity, m.Mult(m.Invert()))
	assertMatrix(t, Identity, Matrix2D{}.Invert())
	assert.InDelta(t, 1, m.Expansion(), tol)
}

func TestParseTransform(t *testing.T) {
	lengths := svgunit.NewResolver(svgunit.Bounds{W: 200, H: 100})
	for _, test := range []struct {
		in    string
		want  Matrix2D
		scale float64
	}{
		{"translate(10,20)", Matrix2D{1, 0, 0, 1, 10, 20}, 0},
		{"translate(10)", Matrix2D{1, 0, 0, 1, 10, 0}, 0},
		{"translate(50%, 50%)", Matrix2D{1, 0, 0, 1, 100, 50}, 0},
		{"scale(2)", Matrix2D{2, 0, 0, 2, 0, 0}, 2},
		{"scale(2, 8)", Matrix2D{2, 0, 0, 8, 0, 0}, 4},
		{"matrix(1 2 3 4 5 6)", Matrix2D{1, 2, 3, 4, 5, 6}, 0},
		{"rotate(90)", Matrix2D{0, 1, -1, 0, 0, 0}, 0},
		{"rotate(450)", Matrix2D{0, 1, -1, 0, 0, 0}, 0},
		{"rotate(180 10 10)", Matrix2D{-1, 0, 0, -1, 20, 20}, 0},
		{"translate(10,20) scale(2,2)", Matrix2D{2, 0, 0, 2, 10, 20}, 2},
		{"scale(2,2) translate(10,20)", Matrix2D{2, 0, 0, 2, 20, 40}, 2},
		{"SkewX(45)", Matrix2D{1, 0, 1, 1, 0, 0}, 0},
		{" /* c */ translate(1 2) ", Matrix2D{1, 0, 0, 1, 1, 2}, 0},
	} {
		got, err := ParseTransform(test.in, lengths)
		require.NoError(t, err, test.in)
		if !test.want.Equal(got.Matrix, 1e-9) {
			t.Errorf("%s: expected %v, got %v", test.in, test.want, got.Matrix)
		}
		assert.InDelta(t, test.scale, got.Scale, tol, test.in)
	}
}

func TestParseTransformInvalid(t *testing.T) {
	for _, in := range []string{
		"matrix(1 2 3)",
		"rotate(1 2)",
		"skewX()",
		"unknown(1)",
		"scale(1 2 3)",
	} {
		_, err := ParseTransform(in, svgunit.Resolver{})
		assert.ErrorIs(t, err, ErrParamMismatch, in)
	}
}

func TestSVGTransform(t *testing.T) {
	for _, test := range []struct {
		m    Matrix2D
		want string
	}{
		{Identity, ""},
		{Matrix2D{1 + 1e-8, 0, 0, 1, 1e-9, 0}, ""},
		{Identity.Scale(2, 3), "scale(2,3)"},
		{Identity.Translate(10, -5), "translate(10,-5)"},
		{Matrix2D{1, 2, 3, 4, 5, 6}, "matrix(1 2 3 4 5 6)"},
		{Identity.Translate(10, 20).Scale(2, 2), "matrix(2 0 0 2 10 20)"},
	} {
		assert.Equal(t, test.want, test.m.SVGTransform(DefaultEpsilon))
	}

	rot := Identity.Rotate(degToRad(90)).SVGTransform(DefaultEpsilon)
	require.True(t, strings.HasPrefix(rot, "rotate("), rot)
	assert.InDelta(t, 90, svgunit.Number(rot[len("rotate("):]), 1e-9)
}

func TestSVGTransformRoundTrip(t *testing.T) {
	composed, err := ParseTransform("translate(10,20) scale(2,2)", svgunit.Resolver{})
	require.NoError(t, err)

	serialized := composed.Matrix.SVGTransform(DefaultEpsilon)
	reparsed, err := ParseTransform(serialized, svgunit.Resolver{})
	require.NoError(t, err)

	if !composed.Matrix.Equal(reparsed.Matrix, DefaultEpsilon) {
		t.Errorf("round trip: %v != %v (via %q)", composed.Matrix, reparsed.Matrix, serialized)
	}

	for _, m := range []Matrix2D{
		Identity.Scale(3, 0.5),
		Identity.Rotate(1.1),
		Identity.Translate(-1, 4),
		Identity.RotateAbout(0.7, 3, 3).SkewX(0.2),
	} {
		reparsed, err := ParseTransform(m.SVGTransform(DefaultEpsilon), svgunit.Resolver{})
		require.NoError(t, err)
		if !m.Equal(reparsed.Matrix, DefaultEpsilon) {
			t.Errorf("round trip: %v != %v", m, reparsed.Matrix)
		}
	}
}

func TestStack(t *testing.T) {
	var s Stack
	assertMatrix(t, Identity, s.Current())

	s.Push()
	s.Concat(Identity.Translate(1, 2))
	s.Push()
	s.Concat(Identity.Scale(2, 2))
	assertMatrix(t, Identity.Translate(1, 2).Scale(2, 2), s.Current())
	assert.Equal(t, 2, s.Depth())

	require.NoError(t, s.Pop())
	assertMatrix(t, Identity.Translate(1, 2), s.Current())
	require.NoError(t, s.Pop())
	assertMatrix(t, Identity, s.Current())

	assert.ErrorIs(t, s.Pop(), ErrUnbalanced)
}
