package svgunit

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePercentages(t *testing.T) {
	r := NewResolver(Bounds{W: 200, H: 50})

	v := r.Resolve("50%", Horizontal)
	assert.Equal(t, 100., v.Value)
	assert.Equal(t, PercentWidth, v.Class)
	assert.Equal(t, "%", v.Unit)

	v = r.Resolve("50%", Vertical)
	assert.Equal(t, 25., v.Value)
	assert.Equal(t, PercentHeight, v.Class)

	v = r.Resolve("10%", Diagonal)
	assert.Equal(t, PercentDiagonal, v.Class)
	assert.InDelta(t, math.Hypot(10-200, 10-50)/math.Sqrt2/100, v.Value, 1e-12)

	for _, pc := range []float64{0, 1, 12.5, 50, 100, 250} {
		tok := strconv.FormatFloat(pc, 'g', -1, 64) + "%"
		assert.InDelta(t, 200*pc/100, r.Length(tok, Horizontal), 1e-9, tok)
	}
}

func TestResolveDegenerateViewBox(t *testing.T) {
	r := NewResolver(Bounds{})
	assert.Equal(t, 0., r.Length("50%", Horizontal))
	assert.Equal(t, 0., r.Length("50%", Vertical))

	r.ViewBox.W = 1e-13
	assert.Equal(t, 0., r.Length("50%", Horizontal))
}

func TestResolveUnits(t *testing.T) {
	r := NewResolver(Bounds{W: 100, H: 100})
	r.PointSize = 10

	for _, test := range []struct {
		raw   string
		want  float64
		class UnitClass
	}{
		{"1in", 96, Physical},
		{"2.54cm", 96, Physical},
		{"25.4mm", 96, Physical},
		{"6pc", 96, Physical},
		{"12pt", 12, Physical},
		{"1.5em", 15, FontRelative},
		{"2ex", 10, FontRelative},
		{"10", 10, Pixel},
		{"10px", 10, Pixel},
		{" 7 ", 7, Pixel},
		{"3IN", 288, Physical},
		{"-2e1", -20, Pixel},
	} {
		v := r.Resolve(test.raw, Horizontal)
		assert.InDelta(t, test.want, v.Value, 1e-9, test.raw)
		assert.Equal(t, test.class, v.Class, test.raw)
	}
}

func TestResolveScale(t *testing.T) {
	r := NewResolver(Bounds{})
	r.Scale = 2
	assert.InDelta(t, 192, r.Length("1in", Diagonal), 1e-9)
	assert.InDelta(t, 10, r.Length("10", Diagonal), 1e-9) // bare numbers are not scaled
}

func TestResolveMalformed(t *testing.T) {
	r := NewResolver(Bounds{W: 100, H: 100})
	assert.Equal(t, 0., r.Length("abc", Horizontal))
	assert.Equal(t, 0., r.Length("", Horizontal))
	assert.Equal(t, 12., r.Length("12garbage", Horizontal))
	assert.Equal(t, 0., r.Length("%", Horizontal))
}

func TestParseNumber(t *testing.T) {
	f, n := ParseNumber("  3.5,4")
	assert.Equal(t, 3.5, f)
	assert.Equal(t, 5, n)

	f, n = ParseNumber("x")
	assert.Equal(t, 0., f)
	assert.Equal(t, 0, n)

	f, n = ParseNumber("1em")
	assert.Equal(t, 1., f)
	assert.Equal(t, 1, n)
}

func TestNamedFontSize(t *testing.T) {
	size, ok := NamedFontSize("medium")
	assert.True(t, ok)
	assert.Equal(t, 12., size)

	_, ok = NamedFontSize("huge")
	assert.False(t, ok)
}
