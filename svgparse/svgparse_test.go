package svgparse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultState = `push graphic-context
compliance "SVG"
fill "black"
fill-opacity 1
stroke "none"
stroke-width 1
stroke-opacity 0
fill-rule nonzero
`

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = logr.Discard()
	return opts
}

func convertString(t *testing.T, svg string) string {
	t.Helper()
	out, err := ConvertString(svg, testOptions())
	require.NoError(t, err)
	return out
}

func TestConvertRect(t *testing.T) {
	out := convertString(t, `<svg viewBox="0 0 100 100"><rect x="10" y="10" width="50%" height="20"/></svg>`)
	expected := defaultState + `viewbox 0 0 100 100
affine 1 0 0 1 0 0
push graphic-context
rectangle 10,10 60,30
pop graphic-context
pop graphic-context
`
	assert.Equal(t, expected, out)
}

func TestViewBoxMapping(t *testing.T) {
	out := convertString(t, `<svg width="200" height="100" viewBox="10 10 100 50"></svg>`)
	assert.Contains(t, out, "viewbox 0 0 200 100\n")
	assert.Contains(t, out, "affine 2 0 0 2 -20 -20\n")
}

func TestShapes(t *testing.T) {
	out := convertString(t, `<svg>
		<circle cx="5" cy="6" r="2"/>
		<ellipse cx="1" cy="2" rx="3" ry="4"/>
		<line x1="0" y1="0" x2="5" y2="5"/>
		<polygon points="0,0 10,0 10,10"/>
		<polyline points="0 0 1 1 2"/>
		<polygon points=""/>
		<path d="M0 0L1 1"/>
		<rect x="2" y="3" width="1" height="1"/>
		<rect width="10" height="10" rx="2"/>
		<image x="1" y="1" width="4" height="4" xlink:href="img.png"/>
	</svg>`)
	for _, line := range []string{
		"circle 5,6 5,8",
		"ellipse 1,2 3,4 0,360",
		"line 0,0 5,5",
		"polygon 0,0 10,0 10,10",
		"polyline 0,0 1,1",
		`path "M0 0L1 1"`,
		"point 2,3",
		"roundRectangle 0,0 10,10 2,2",
		`image Over 1,1 4,4 "img.png"`,
	} {
		assert.Contains(t, out, line+"\n")
	}
	assert.Equal(t, 1, strings.Count(out, "polygon"))
	assert.Equal(t, strings.Count(out, "push graphic-context"), strings.Count(out, "pop graphic-context"))
}

func TestCharData(t *testing.T) {
	out := convertString(t, `<svg><text x="1" y="2">hello /* note */ world</text></svg>`)
	assert.Contains(t, out, `text 1,2 "hello  world"`+"\n")

	out = convertString(t, `<svg><text x="1" y="2">a<tspan>b</tspan>c</text></svg>`)
	assert.Contains(t, out, `push graphic-context
text 1,2 "a"
push graphic-context
text 1,2 "b"
pop graphic-context
text 1,2 "c"
pop graphic-context
`)
}

func TestTextOffset(t *testing.T) {
	out := convertString(t, `<svg><text x="1" y="2" dx="3" dy="4">t</text></svg>`)
	assert.Contains(t, out, "translate 3,0\ntranslate 0,4\n")
	assert.Contains(t, out, `text 4,6 "t"`)
}

func TestCurrentColor(t *testing.T) {
	out := convertString(t, `<svg><g style="color:red"><rect width="1" height="2" fill="currentColor"/></g><rect width="1" height="2" stroke="currentColor"/></svg>`)
	assert.Contains(t, out, `currentColor "red"`+"\n")
	assert.Contains(t, out, `fill "red"`+"\n")
	// the binding is scoped to the group
	assert.Contains(t, out, `stroke "none"`+"\nrectangle")
}

func TestStyleAttribute(t *testing.T) {
	out := convertString(t, `<svg><g style="fill: blue; stroke-width: 2em; font-size: 10; stroke-dasharray: 1 2"/></svg>`)
	// font-size is applied first, so that em units use it
	assert.Contains(t, out, `push graphic-context
font-size 10
fill "blue"
stroke-width 20
stroke-dasharray 1,2
pop graphic-context
`)
}

func TestStyleElement(t *testing.T) {
	out := convertString(t, `<svg><style>.big { font-size: 20px; fill: red } rect { stroke: blue }</style></svg>`)
	assert.Contains(t, out, `push class "big"
font-size 20
fill "red"
pop class
push class "rect"
stroke "blue"
pop class
`)
}

func TestTransform(t *testing.T) {
	out := convertString(t, `<svg><g transform="translate(10,20) scale(2)"/></svg>`)
	assert.Contains(t, out, "affine 2 0 0 2 10 20\n")

	// a single translate argument leaves y unchanged, for elements and gradients
	out = convertString(t, `<svg><g transform="translate(5)"/><linearGradient id="g" gradientTransform="translate(5)"/></svg>`)
	assert.Equal(t, 2, strings.Count(out, "affine 1 0 0 1 5 0\n"))

	opts := testOptions()
	opts.ErrorMode = mvg.StrictErrorMode
	_, err := ConvertString(`<svg><g transform="wobble(1)"/></svg>`, opts)
	assert.True(t, errors.Is(err, mvg.ErrUnknownKeyword))
}

func TestUse(t *testing.T) {
	out := convertString(t, `<svg><use xlink:href="#a" x="3" y="4"/><use href="#b"/></svg>`)
	assert.Contains(t, out, "translate 3,4\nuse \"url(#a)\"\n")
	assert.Contains(t, out, "push graphic-context\nuse \"url(#b)\"\n")
}

func TestGradients(t *testing.T) {
	out := convertString(t, `<svg><defs>
		<linearGradient id="g" x1="0" y1="0" x2="1" y2="0"><stop offset="0.5" stop-color="red"/><stop/></linearGradient>
		<radialGradient id="r" cx="5" cy="5" r="3"></radialGradient>
		<radialGradient id="f" cx="5" cy="5" fx="1" fy="2" r="3"></radialGradient>
	</defs></svg>`)
	assert.Contains(t, out, `push defs
push gradient "g" linear 0,0 1,0
stop-color "red" 0.5
stop-color "black" 100%
pop gradient
`)
	assert.Contains(t, out, `push gradient "r" radial 5,5 5,5 3`+"\n")
	assert.Contains(t, out, `push gradient "f" radial 5,5 1,2 3`+"\n")
	assert.Contains(t, out, "pop defs\n")
}

func TestScopes(t *testing.T) {
	out := convertString(t, `<svg>
		<clipPath id="c"><rect width="2" height="2"/></clipPath>
		<mask id="m"></mask>
		<pattern id="p" x="1" y="2" width="3" height="4"></pattern>
		<symbol></symbol>
	</svg>`)
	for _, line := range []string{
		`push clip-path "c"`, "pop clip-path",
		`push mask "m"`, "pop mask",
		`push pattern "p" 1,2 3,4`, "pop pattern",
		"push symbol", "pop symbol",
	} {
		assert.Contains(t, out, line+"\n")
	}
}

func TestTitleAndDesc(t *testing.T) {
	var out strings.Builder
	b, err := convert(strings.NewReader(`<svg><!-- made by hand --><title> My title </title><desc>a &lt;b&gt;</desc></svg>`), &out, testOptions())
	require.NoError(t, err)
	assert.Equal(t, "My title", b.Title())
	assert.Equal(t, []string{" made by hand "}, b.Comments())
	assert.Contains(t, out.String(), "#a <b>\n")
}

func TestUnknownElement(t *testing.T) {
	out := convertString(t, `<svg><blink width="3"/></svg>`)
	assert.Equal(t, defaultState+"pop graphic-context\n", out)

	opts := testOptions()
	opts.ErrorMode = mvg.StrictErrorMode
	_, err := ConvertString(`<svg><blink/></svg>`, opts)
	var e *mvg.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, mvg.UnsupportedError, e.Kind)
	assert.Equal(t, "blink", e.Keyword)

	var logs []string
	opts.ErrorMode = mvg.WarnErrorMode
	opts.Logger = funcr.New(func(prefix, args string) { logs = append(logs, args) }, funcr.Options{})
	_, err = ConvertString(`<svg><blink/></svg>`, opts)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "blink")
}

func TestMaxDepth(t *testing.T) {
	opts := testOptions()
	opts.MaxDepth = 2
	_, err := ConvertString(`<svg><g><g/></g></svg>`, opts)
	var e *mvg.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, mvg.StructuralError, e.Kind)
	assert.True(t, errors.Is(err, mvg.ErrMaxDepth))
}

func TestUnbalanced(t *testing.T) {
	var out strings.Builder
	b := NewBuilder(&out, testOptions())
	require.NoError(t, b.StartElement("svg", nil))
	require.NoError(t, b.StartElement("g", nil))
	err := b.EndElement("svg")
	assert.True(t, errors.Is(err, mvg.ErrUnbalanced))
	// errors are sticky
	assert.Equal(t, err, b.EndElement("g"))
	assert.Equal(t, err, b.Close())
	// partial output is kept
	assert.Contains(t, out.String(), "push graphic-context\n")

	b = NewBuilder(&out, testOptions())
	require.NoError(t, b.StartElement("svg:svg", nil))
	assert.Equal(t, 1, b.Depth())
	assert.True(t, errors.Is(b.Close(), mvg.ErrUnbalanced))
}

func TestInvalidDocument(t *testing.T) {
	_, err := ConvertString("", testOptions())
	assert.Error(t, err)

	_, err = ConvertString("<svg><g></svg", testOptions())
	assert.Error(t, err)

	// elements left open at the end of the document
	out, err := ConvertString(`<svg viewBox="0 0 10 10"><g><rect width="2" height="3"/>`, testOptions())
	var e *mvg.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, mvg.StructuralError, e.Kind)
	assert.True(t, errors.Is(err, mvg.ErrUnbalanced))
	assert.Contains(t, out, "rectangle 0,0 2,3\n")
}

func TestEncoding(t *testing.T) {
	out := convertString(t, `<?xml version="1.0" encoding="UTF-8"?><svg><g/></svg>`)
	assert.Contains(t, out, "fill-rule nonzero\nencoding \"UTF-8\"\n")

	out = convertString(t, `<svg><g/></svg>`)
	assert.NotContains(t, out, "encoding")

	assert.Equal(t, "ISO-8859-1", procInstParam(`version='1.0' encoding='ISO-8859-1'`, "encoding"))
	assert.Equal(t, "", procInstParam(`version="1.0"`, "encoding"))
	assert.Equal(t, "", procInstParam(`encoding="UTF-8`, "encoding"))
}

func TestRoundTrip(t *testing.T) {
	out := convertString(t, `<svg width="100" height="100">
		<g id="layer" style="stroke: black" transform="rotate(45)">
			<rect width="10" height="20"/>
			<circle cx="5" cy="5" r="5"/>
			<polygon points="0,0 1,0 1,1"/>
			<text x="1" y="1">hi</text>
		</g>
	</svg>`)
	var rec mvg.Recorder
	require.NoError(t, mvg.InterpretString(out, &rec, mvg.DefaultOptions()))
	var kinds []mvg.PrimitiveKind
	for _, p := range rec.Primitives {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []mvg.PrimitiveKind{mvg.RectanglePrimitive, mvg.CirclePrimitive, mvg.PolygonPrimitive, mvg.TextPrimitive}, kinds)
	assert.Equal(t, "layer", rec.Scopes[1].ID)
	stroke, _ := rec.LastStyle("stroke")
	assert.Equal(t, "black", stroke)
	assert.Equal(t, len(rec.Scopes), len(rec.Pops))
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.toml")
	require.NoError(t, os.WriteFile(path, []byte("error_mode = \"strict\"\nmax_depth = 3\n"), 0o644))
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, mvg.StrictErrorMode, opts.ErrorMode)
	assert.Equal(t, 3, opts.MaxDepth)
	assert.Equal(t, 12., opts.PointSize)

	require.NoError(t, os.WriteFile(path, []byte("error_mode = \"loud\"\n"), 0o644))
	_, err = LoadOptions(path)
	assert.Error(t, err)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
