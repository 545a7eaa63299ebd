package svgdraw

import (
	"errors"
	"image/color"
	"testing"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgpath"
	"github.com/benoitkugler/svgmvg/svgunit"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

// drawing is one Draw call on a drawer
type drawing struct {
	stroke  bool
	path    svgpath.Path
	pattern svgpath.Pattern
	opacity float64
	winding bool
	options StrokeOptions
}

type drawer struct {
	driver  *driver
	stroke  bool
	current drawing
}

func (d *drawer) Clear() { d.current = drawing{stroke: d.stroke} }
func (d *drawer) Start(a fixed.Point26_6) { d.current.path.Start(a) }
func (d *drawer) Line(b fixed.Point26_6) { d.current.path.Line(b) }
func (d *drawer) QuadBezier(b, c fixed.Point26_6) { d.current.path.QuadBezier(b, c) }
func (d *drawer) CubeBezier(b, c, e fixed.Point26_6) { d.current.path.CubeBezier(b, c, e) }
func (d *drawer) Stop(closeLoop bool) { d.current.path.Stop(closeLoop) }
func (d *drawer) SetWinding(useNonZeroWinding bool) { d.current.winding = useNonZeroWinding }
func (d *drawer) SetStrokeOptions(opts StrokeOptions) { d.current.options = opts }
func (d *drawer) SetColor(c svgpath.Pattern, o float64) { d.current.pattern, d.current.opacity = c, o }
func (d *drawer) Draw() { d.driver.drawings = append(d.driver.drawings, d.current) }

type driver struct {
	drawings []drawing
}

func (d *driver) SetupDrawers(willFill, willStroke bool) (f Filler, s Stroker) {
	if willFill {
		f = &drawer{driver: d}
	}
	if willStroke {
		s = &drawer{driver: d, stroke: true}
	}
	return f, s
}

func testOptions() mvg.Options {
	opts := mvg.DefaultOptions()
	opts.Logger = logr.Discard()
	return opts
}

func paint(t *testing.T, src string) (*driver, *Painter) {
	t.Helper()
	var d driver
	p, err := Paint(&d, src, testOptions())
	require.NoError(t, err)
	return &d, p
}

func fp(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func TestFillAndStroke(t *testing.T) {
	d, _ := paint(t, `push graphic-context
fill "red"
stroke "#00f"
stroke-width 2
stroke-linecap round
stroke-linejoin bevel
stroke-dasharray 5,2
fill-rule evenodd
rectangle 0,0 10,10
pop graphic-context
`)
	require.Len(t, d.drawings, 2)
	fill, stroke := d.drawings[0], d.drawings[1]

	assert.False(t, fill.stroke)
	assert.False(t, fill.winding)
	assert.Equal(t, svgpath.NewPlainColor(0xff, 0, 0, 0xff), fill.pattern)
	assert.Equal(t, 1., fill.opacity)
	assert.Equal(t, svgpath.Path{
		svgpath.MoveTo(fp(0, 0)), svgpath.LineTo(fp(10, 0)), svgpath.LineTo(fp(10, 10)),
		svgpath.LineTo(fp(0, 10)), svgpath.Close{},
	}, fill.path)

	assert.True(t, stroke.stroke)
	assert.Equal(t, svgpath.NewPlainColor(0, 0, 0xff, 0xff), stroke.pattern)
	assert.Equal(t, fixed.Int26_6(2*64), stroke.options.LineWidth)
	assert.Equal(t, RoundCap, stroke.options.Join.TrailLineCap)
	assert.Equal(t, RoundCap, stroke.options.Join.LeadLineCap)
	assert.Equal(t, Bevel, stroke.options.Join.LineJoin)
	assert.Equal(t, []float64{5, 2}, stroke.options.Dash.Dash)
}

func TestGraphicState(t *testing.T) {
	d, _ := paint(t, `push graphic-context
fill "none"
stroke "black"
opacity 0.5
push graphic-context
translate 10,0
scale 2,2
stroke-opacity 50%
line 0,0 1,1
pop graphic-context
line 0,0 1,1
pop graphic-context
point 3,4
`)
	require.Len(t, d.drawings, 3)

	// the inner context is transformed, and the width scaled
	inner := d.drawings[0]
	assert.True(t, inner.stroke)
	assert.Equal(t, 0.5, inner.opacity)
	assert.Equal(t, svgpath.Path{svgpath.MoveTo(fp(10, 0)), svgpath.LineTo(fp(12, 2))}, inner.path)
	assert.Equal(t, fixed.Int26_6(2*64), inner.options.LineWidth)

	// the outer context is restored
	outer := d.drawings[1]
	assert.Equal(t, 0.5, outer.opacity)
	assert.Equal(t, svgpath.Path{svgpath.MoveTo(fp(0, 0)), svgpath.LineTo(fp(1, 1))}, outer.path)

	// default style: black fill, no stroke
	def := d.drawings[2]
	assert.False(t, def.stroke)
	assert.Equal(t, DefaultStyle.FillerColor, def.pattern)
}

func TestHiddenScopes(t *testing.T) {
	d, p := paint(t, `viewbox 0 0 20 30
push defs
push graphic-context "shape"
fill "green"
circle 0,0 1,0
pop graphic-context
pop defs
push class "c"
fill "blue"
pop class
push graphic-context
translate 5,5
use "url(#shape)"
rectangle 0,0 1,1
pop graphic-context
text 1,1 "hello"
`)
	assert.Equal(t, 20., p.ViewBox.W)
	require.Len(t, d.drawings, 2)

	used := d.drawings[0]
	green := svgpath.NewPlainColor(0, 0x80, 0, 0xff)
	assert.Equal(t, green, used.pattern)
	start := fixed.Point26_6(used.path[0].(svgpath.MoveTo))
	assert.Equal(t, fp(6, 5), start)

	// class styles do not leak
	assert.Equal(t, DefaultStyle.FillerColor, d.drawings[1].pattern)
}

func TestGradientPaint(t *testing.T) {
	d, _ := paint(t, `push defs
push gradient "g" linear 0,0 10,0
gradient-units "objectBoundingBox"
stop-color "white" 0
stop-color "black" 100%
pop gradient
push gradient "u" radial 5,5 5,5 5
affine 2 0 0 2 0 0
stop-color "none" 0.5
pop gradient
pop defs
push graphic-context
fill "url(#g)"
rectangle 0,0 10,10
pop graphic-context
push graphic-context
translate 1,1
fill "url(#u)"
rectangle 0,0 10,10
pop graphic-context
push graphic-context
fill "url(#missing)"
rectangle 0,0 10,10
pop graphic-context
`)
	require.Len(t, d.drawings, 3)

	g, ok := d.drawings[0].pattern.(svgpath.Gradient)
	require.True(t, ok)
	assert.Equal(t, svgpath.ObjectBoundingBox, g.Units)
	assert.Equal(t, svgpath.Linear{0, 0, 10, 0}, g.Direction)
	require.Len(t, g.Stops, 2)
	assert.Equal(t, 1., g.Stops[1].Offset)
	assert.Equal(t, color.NRGBA{A: 0xff}, g.Stops[1].StopColor)
	assert.True(t, g.Matrix.IsIdentity(svgmatrix.DefaultEpsilon))
	assert.Equal(t, svgunit.Bounds{W: 10, H: 10}, g.Bounds)

	u, ok := d.drawings[1].pattern.(svgpath.Gradient)
	require.True(t, ok)
	assert.True(t, u.IsRadial())
	assert.Equal(t, svgpath.UserSpaceOnUse, u.Units)
	// mapped to the device space
	assert.True(t, u.Matrix.Equal(svgmatrix.Matrix2D{A: 2, D: 2, E: 1, F: 1}, svgmatrix.DefaultEpsilon))
	require.Len(t, u.Stops, 1)
	assert.Equal(t, 0., u.Stops[0].Opacity)

	assert.Equal(t, DefaultStyle.FillerColor, d.drawings[2].pattern)
}

func TestInvalidInput(t *testing.T) {
	// partial path data is drawn
	d, _ := paint(t, "path \"M0 0 L10 0 L\"\n")
	require.Len(t, d.drawings, 1)
	assert.Len(t, d.drawings[0].path, 2)

	opts := testOptions()
	opts.ErrorMode = mvg.StrictErrorMode
	for _, src := range []string{
		"path \"M0 0 L\"\n",
		"fill \"notacolor\"\n",
		"use \"url(#nothing)\"\n",
	} {
		var d driver
		_, err := Paint(&d, src, opts)
		var e *mvg.Error
		require.True(t, errors.As(err, &e), src)
		assert.Equal(t, mvg.UnsupportedError, e.Kind, src)
	}

	var d2 driver
	p := NewPainter(&d2, testOptions())
	assert.True(t, errors.Is(p.Pop(mvg.GraphicContext), mvg.ErrUnbalanced))
	assert.True(t, errors.Is(p.Pop(mvg.DefsScope), mvg.ErrUnbalanced))
}

func TestPrimitivePath(t *testing.T) {
	pt := func(x, y float64) mvg.Point { return mvg.Point{X: x, Y: y} }
	for _, prim := range []mvg.Primitive{
		{Kind: mvg.PointPrimitive, Points: []mvg.Point{pt(1, 1)}},
		{Kind: mvg.RoundRectanglePrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 10), pt(2, 2)}},
		{Kind: mvg.ArcPrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 10), pt(0, 90)}},
		{Kind: mvg.ArcPrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 10), pt(1e30, 0)}},
		{Kind: mvg.EllipsePrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 5), pt(1e30, 0)}},
		{Kind: mvg.EllipsePrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 5), pt(0, 360)}},
		{Kind: mvg.EllipsePrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 5), pt(0, 90)}},
		{Kind: mvg.PolylinePrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 5)}},
		{Kind: mvg.PolygonPrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 5), pt(3, 3), pt(0, 0)}},
		{Kind: mvg.BezierPrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 5), pt(3, 3)}},
	} {
		path, err := PrimitivePath(prim)
		require.NoError(t, err, prim.Kind)
		assert.NotEmpty(t, path, prim.Kind)
		assert.IsType(t, svgpath.MoveTo{}, path[0], prim.Kind)
	}

	// the arc of a quarter is open, the full ellipse is closed
	arc, _ := PrimitivePath(mvg.Primitive{Kind: mvg.ArcPrimitive, Points: []mvg.Point{pt(0, 0), pt(10, 10), pt(0, 90)}})
	assert.NotEqual(t, svgpath.Close{}, arc[len(arc)-1])
	assert.Equal(t, fp(10, 5), fixed.Point26_6(arc[0].(svgpath.MoveTo)))

	for _, kind := range []mvg.PrimitiveKind{mvg.TextPrimitive, mvg.ImagePrimitive, mvg.ColorPrimitive, mvg.AlphaPrimitive} {
		_, err := PrimitivePath(mvg.Primitive{Kind: kind, Points: []mvg.Point{pt(0, 0), pt(1, 1)}})
		assert.True(t, errors.Is(err, ErrNotRendered))
	}
}

func TestParseColor(t *testing.T) {
	for _, test := range []struct {
		in       string
		expected color.Color
	}{
		{"red", color.NRGBA{R: 0xff, A: 0xff}},
		{"DarkBlue", color.NRGBA{B: 0x8b, A: 0xff}},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{"#10203040", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{"rgb(255, 0, 10)", color.NRGBA{R: 255, B: 10, A: 0xff}},
		{"rgb(100%,0%,50%)", color.NRGBA{R: 255, B: 128, A: 0xff}},
		{"rgba(1,2,3,0.5)", color.NRGBA{R: 1, G: 2, B: 3, A: 128}},
		{"none", nil},
		{"transparent", nil},
	} {
		c, err := ParseColor(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.expected, c, test.in)
	}

	for _, bad := range []string{"", "#12", "#ggg", "rgb(1,2)", "nocolor"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestModes(t *testing.T) {
	assert.Equal(t, "Miter", Miter.String())
	assert.Equal(t, "RoundCap", RoundCap.String())
	assert.Equal(t, "FlatGap", FlatGap.String())

	j, ok := parseJoinMode("miter-clip")
	assert.True(t, ok)
	assert.Equal(t, MiterClip, j)
	_, ok = parseCapMode("flat")
	assert.False(t, ok)
}
