// Serializes MVG directive streams back to SVG documents.
// The directives are validated by the mvg interpreter, and
// each one is translated on the fly: graphic contexts become
// groups whose style is built from the style directives
// following the push.
package svgwrite

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// Options configures the serialization.
type Options struct {
	// Width and Height are the size of the document. When zero,
	// the size is read from the first viewbox directive.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	MVG mvg.Options `toml:"mvg"`
}

// DefaultOptions uses the default interpreter options.
func DefaultOptions() Options {
	return Options{MVG: mvg.DefaultOptions()}
}

// Encode interprets the MVG stream and writes the SVG document to w.
// On failure, the output already produced is still written.
func Encode(w io.Writer, mvgText string, opts Options) error {
	enc := NewEncoder(w, opts.Width, opts.Height)
	err := mvg.InterpretString(mvgText, enc, opts.MVG)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	return err
}

// EncodeString is a convenience wrapper around Encode.
func EncodeString(mvgText string, opts Options) (string, error) {
	var out strings.Builder
	err := Encode(&out, mvgText, opts)
	return out.String(), err
}

var _ mvg.Handler = (*Encoder)(nil)

// Encoder is an mvg.Handler writing SVG markup.
// The body is buffered until Close, since the document
// size may only be known after some directives.
type Encoder struct {
	w             io.Writer
	width, height float64

	body bytes.Buffer

	// a <g style=" tag is waiting for its closing quote
	pending   bool
	transform svgmatrix.Matrix2D // of the pending group

	gcDepth    int
	classDepth int
	scopes     []string // closing tags of the non group scopes

	// groups opened by transforms following some content,
	// per open scope, the document root first
	nested []int
}

// NewEncoder returns an encoder writing a document of the given size.
func NewEncoder(w io.Writer, width, height float64) *Encoder {
	return &Encoder{w: w, width: width, height: height, transform: svgmatrix.Identity, nested: []int{0}}
}

// closeNested closes the groups opened by late transforms in the current scope.
func (e *Encoder) closeNested() {
	last := len(e.nested) - 1
	for ; e.nested[last] > 0; e.nested[last]-- {
		e.body.WriteString("</g>\n")
	}
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func num(v float64) string { return svgunit.FormatNumber(v) }

// closePending terminates the opening tag of the current group.
func (e *Encoder) closePending() {
	if !e.pending {
		return
	}
	e.pending = false
	e.body.WriteByte('"')
	if tr := e.transform.SVGTransform(svgmatrix.DefaultEpsilon); tr != "" {
		fmt.Fprintf(&e.body, ` transform="%s"`, tr)
	}
	e.body.WriteString(">\n")
	e.transform = svgmatrix.Identity
}

func (e *Encoder) Comment(text string) error {
	e.closePending()
	fmt.Fprintf(&e.body, "<desc>%s</desc>\n", escape(text))
	return nil
}

func (e *Encoder) Push(scope mvg.Scope) error {
	e.closePending()
	if scope.Kind != mvg.ClassScope {
		e.nested = append(e.nested, 0)
	}
	id := escape(scope.ID)
	switch scope.Kind {
	case mvg.GraphicContext:
		e.gcDepth++
		if id != "" {
			fmt.Fprintf(&e.body, `<g id="%s" style="`, id)
		} else {
			e.body.WriteString(`<g style="`)
		}
		e.pending = true
		return nil
	case mvg.ClassScope:
		e.classDepth++
		return nil
	case mvg.ClipPathScope:
		fmt.Fprintf(&e.body, "<clipPath id=\"%s\">\n", id)
	case mvg.DefsScope:
		e.body.WriteString("<defs>\n")
	case mvg.GradientScope:
		g := scope.Gradient
		if g.Kind == mvg.RadialGradient {
			fmt.Fprintf(&e.body, "<radialGradient id=\"%s\" cx=\"%s\" cy=\"%s\" r=\"%s\" fx=\"%s\" fy=\"%s\">\n",
				id, num(g.CX), num(g.CY), num(g.R), num(g.FX), num(g.FY))
		} else {
			fmt.Fprintf(&e.body, "<linearGradient id=\"%s\" x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\">\n",
				id, num(g.X1), num(g.Y1), num(g.X2), num(g.Y2))
		}
	case mvg.MaskScope:
		fmt.Fprintf(&e.body, "<mask id=\"%s\">\n", id)
	case mvg.PatternScope:
		b := scope.Bounds
		fmt.Fprintf(&e.body, "<pattern id=\"%s\" x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\">\n",
			id, num(b.X), num(b.Y), num(b.W), num(b.H))
	case mvg.SymbolScope:
		e.body.WriteString("<symbol>\n")
	}
	e.scopes = append(e.scopes, closingTag(scope))
	return nil
}

func closingTag(scope mvg.Scope) string {
	switch scope.Kind {
	case mvg.ClipPathScope:
		return "</clipPath>\n"
	case mvg.DefsScope:
		return "</defs>\n"
	case mvg.GradientScope:
		if scope.Gradient.Kind == mvg.RadialGradient {
			return "</radialGradient>\n"
		}
		return "</linearGradient>\n"
	case mvg.MaskScope:
		return "</mask>\n"
	case mvg.PatternScope:
		return "</pattern>\n"
	default:
		return "</symbol>\n"
	}
}

func (e *Encoder) Pop(kind mvg.ScopeKind) error {
	e.closePending()
	switch kind {
	case mvg.GraphicContext:
		e.gcDepth--
		if e.gcDepth < 0 {
			return mvg.NewError(mvg.StructuralError, "pop graphic-context", 0, mvg.ErrUnbalanced)
		}
		e.popNested()
		e.body.WriteString("</g>\n")
	case mvg.ClassScope:
		if e.classDepth > 0 {
			e.classDepth--
		}
	default:
		if len(e.scopes) == 0 {
			return mvg.NewError(mvg.StructuralError, "pop "+kind.String(), 0, mvg.ErrUnbalanced)
		}
		e.popNested()
		e.body.WriteString(e.scopes[len(e.scopes)-1])
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
	return nil
}

func (e *Encoder) popNested() {
	e.closeNested()
	if len(e.nested) > 1 {
		e.nested = e.nested[:len(e.nested)-1]
	}
}

// refID returns the id of a reference such as "url(#id)", "#id" or "id".
func refID(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "url(") {
		v = strings.TrimSuffix(strings.TrimPrefix(v, "url("), ")")
	}
	return strings.TrimPrefix(v, "#")
}

// styleProperty returns the CSS declaration for the
// style directive, or an empty string if it has no equivalent.
func styleProperty(name, value string) string {
	switch name {
	case "class", "compliance", "encoding", "gradient-units":
		return ""
	case "clip-path":
		return "clip-path:url(#" + refID(value) + ");"
	case "clip-units":
		return "clipPathUnits:" + value + ";"
	case "currentColor":
		return "color:" + value + ";"
	case "decorate":
		return "text-decoration:" + value + ";"
	case "stroke-dasharray":
		return "stroke-dasharray:" + strings.ReplaceAll(value, ",", " ") + ";"
	default:
		return name + ":" + value + ";"
	}
}

// Style adds a declaration to the pending group. Directives
// inside class scopes, or after the group content, are dropped.
func (e *Encoder) Style(name, value string) error {
	if !e.pending || e.classDepth > 0 {
		return nil
	}
	e.body.WriteString(escape(styleProperty(name, value)))
	return nil
}

// Transform composes with the transform of the pending group.
// After some content, a nested group is opened instead, closed
// with the enclosing scope.
func (e *Encoder) Transform(m svgmatrix.Matrix2D) error {
	if e.pending {
		e.transform = e.transform.Mult(m)
		return nil
	}
	tr := m.SVGTransform(svgmatrix.DefaultEpsilon)
	if tr == "" {
		return nil
	}
	fmt.Fprintf(&e.body, "<g transform=\"%s\">\n", tr)
	e.nested[len(e.nested)-1]++
	return nil
}

func (e *Encoder) StopColor(color, offset string) error {
	e.closePending()
	fmt.Fprintf(&e.body, "  <stop offset=\"%s\" stop-color=\"%s\"/>\n", escape(offset), escape(color))
	return nil
}

func (e *Encoder) Viewbox(b svgunit.Bounds) error {
	if e.width == 0 && e.height == 0 {
		e.width, e.height = b.W, b.H
	}
	return nil
}

func (e *Encoder) Use(href string) error {
	e.closePending()
	href = strings.TrimSuffix(strings.TrimPrefix(href, "url("), ")")
	fmt.Fprintf(&e.body, "  <use href=\"%s\"/>\n", escape(href))
	return nil
}

// writePoints writes the points list, wrapping long lines.
func (e *Encoder) writePoints(tag string, points []mvg.Point) {
	fmt.Fprintf(&e.body, "  <%s points=\"", tag)
	length := len(tag) + 12
	for _, p := range points {
		item := num(p.X) + "," + num(p.Y) + " "
		length += len(item)
		if length >= 80 {
			e.body.WriteString("\n    ")
			length = len(item) + 5
		}
		e.body.WriteString(item)
	}
	e.body.WriteString("\"/>\n")
}

func (e *Encoder) Primitive(p mvg.Primitive) error {
	e.closePending()
	pts := p.Points
	switch p.Kind {
	case mvg.PointPrimitive:
		fmt.Fprintf(&e.body, "  <circle cx=\"%s\" cy=\"%s\" r=\"0.5\"/>\n", num(pts[0].X), num(pts[0].Y))
	case mvg.LinePrimitive:
		fmt.Fprintf(&e.body, "  <line x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\"/>\n",
			num(pts[0].X), num(pts[0].Y), num(pts[1].X), num(pts[1].Y))
	case mvg.RectanglePrimitive:
		fmt.Fprintf(&e.body, "  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\"/>\n",
			num(pts[0].X), num(pts[0].Y), num(pts[1].X-pts[0].X), num(pts[1].Y-pts[0].Y))
	case mvg.RoundRectanglePrimitive:
		fmt.Fprintf(&e.body, "  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" rx=\"%s\" ry=\"%s\"/>\n",
			num(pts[0].X), num(pts[0].Y), num(pts[1].X-pts[0].X), num(pts[1].Y-pts[0].Y), num(pts[2].X), num(pts[2].Y))
	case mvg.EllipsePrimitive:
		fmt.Fprintf(&e.body, "  <ellipse cx=\"%s\" cy=\"%s\" rx=\"%s\" ry=\"%s\"/>\n",
			num(pts[0].X), num(pts[0].Y), num(pts[1].X), num(pts[1].Y))
	case mvg.CirclePrimitive:
		r := math.Hypot(pts[1].X-pts[0].X, pts[1].Y-pts[0].Y)
		fmt.Fprintf(&e.body, "  <circle cx=\"%s\" cy=\"%s\" r=\"%s\"/>\n", num(pts[0].X), num(pts[0].Y), num(r))
	case mvg.PolylinePrimitive:
		e.writePoints("polyline", pts)
	case mvg.PolygonPrimitive:
		e.writePoints("polygon", pts)
	case mvg.PathPrimitive:
		fmt.Fprintf(&e.body, "  <path d=\"%s\"/>\n", escape(p.Text))
	case mvg.TextPrimitive:
		fmt.Fprintf(&e.body, "  <text x=\"%s\" y=\"%s\">%s</text>\n", num(pts[0].X), num(pts[0].Y), escape(p.Text))
	case mvg.ImagePrimitive:
		fmt.Fprintf(&e.body, "  <image x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" href=\"%s\"/>\n",
			num(pts[0].X), num(pts[0].Y), num(pts[1].X), num(pts[1].Y), escape(p.Text))
	}
	// arcs, beziers, color and alpha have no markup
	return nil
}

// Close writes the document: header, body and trailer.
// A group left open is terminated, but not closed.
func (e *Encoder) Close() error {
	e.closePending()
	if len(e.nested) == 1 {
		e.closeNested()
	}
	w := bufio.NewWriter(e.w)
	w.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n")
	fmt.Fprintf(w, "<svg width=\"%s\" height=\"%s\" xmlns=\"http://www.w3.org/2000/svg\">\n", num(e.width), num(e.height))
	w.Write(e.body.Bytes())
	w.WriteString("</svg>\n")
	return w.Flush()
}
