package svgpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEllipseArcAngles(t *testing.T) {
	ellipseArc := func(start, end float64) (p Path) {
		within(t, func() { p.AddEllipseArc(0, 0, 5, 3, start, end) })
		return p
	}

	full := ellipseArc(0, 360)
	assert.Len(t, full, 1+arcSegments(2*math.Pi))
	// larger spans are one turn
	assert.Equal(t, full, ellipseArc(0, 1e12))
	assert.Equal(t, full, ellipseArc(0, 720))
	// negative spans are wrapped
	assert.Equal(t, ellipseArc(90, 270), ellipseArc(90, -90))
	assert.Equal(t, ellipseArc(0, 0), ellipseArc(0, -360))

	for _, angles := range [][2]float64{
		{1e30, 0},
		{0, 1e30},
		{-1e308, 1e308},
		{1e308, -1e308},
	} {
		p := ellipseArc(angles[0], angles[1])
		assert.NotEmpty(t, p, angles)
		assert.LessOrEqual(t, len(p), 1+arcSegments(math.Inf(1)), angles)
	}

	// non finite values add nothing
	for _, angles := range [][2]float64{
		{math.NaN(), 0},
		{0, math.Inf(1)},
		{math.Inf(-1), 0},
	} {
		assert.Empty(t, ellipseArc(angles[0], angles[1]), angles)
	}
	var p Path
	p.AddEllipseArc(0, 0, math.NaN(), 3, 0, 90)
	assert.Empty(t, p)
}

func TestArcDegenerate(t *testing.T) {
	for _, test := range []struct {
		rx, ry, rot float64
		want        Path
	}{
		{0, 5, 0, Path{LineTo(fp(10, 0))}},
		{5, 0, 0, Path{LineTo(fp(10, 0))}},
		{math.Inf(1), 5, 0, Path{LineTo(fp(10, 0))}},
		{5, 5, math.NaN(), Path{LineTo(fp(10, 0))}},
	} {
		var p Path
		within(t, func() { p.AddArc(0, 0, test.rx, test.ry, test.rot, false, true, 10, 0) })
		assert.Equal(t, test.want, p, test)
	}

	var p Path
	p.AddArc(0, 0, 5, 5, 0, false, true, math.NaN(), 0)
	assert.Empty(t, p)
}

func TestArcSegments(t *testing.T) {
	assert.Equal(t, 1, arcSegments(0))
	assert.Equal(t, 17, arcSegments(2*math.Pi))
	assert.Equal(t, arcSegments(4*math.Pi), arcSegments(1e300))
	assert.Equal(t, arcSegments(4*math.Pi), arcSegments(math.NaN()))
}
