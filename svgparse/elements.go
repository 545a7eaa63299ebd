package svgparse

import (
	"math"
	"strings"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// elementHandler describes how an element is translated.
type elementHandler struct {
	// start is called after the geometry attributes are read,
	// before the other ones.
	start func(b *Builder, f *drawingContext)
	// ready is called once all the attributes are processed
	ready func(b *Builder, f *drawingContext)
	end   func(b *Builder, f *drawingContext)
	// resetOrigin clears the inherited x and y
	resetOrigin bool
}

var elements = map[string]elementHandler{
	"circle":         {start: gStart, end: circleEnd},
	"clippath":       {start: clipPathStart, end: popScope("clip-path")},
	"defs":           {start: pushScope("defs"), end: popScope("defs")},
	"desc":           {end: descEnd},
	"ellipse":        {start: gStart, end: ellipseEnd},
	"foreignobject":  {start: gStart, end: gEnd},
	"g":              {start: gStart, end: gEnd},
	"image":          {start: gStart, end: imageEnd, resetOrigin: true},
	"line":           {start: gStart, end: lineEnd},
	"lineargradient": {start: linearGradientStart, end: popScope("gradient")},
	"mask":           {start: maskStart, end: popScope("mask")},
	"path":           {start: gStart, end: pathEnd},
	"pattern":        {start: patternStart, end: popScope("pattern"), resetOrigin: true},
	"polygon":        {start: gStart, end: verticesEnd("polygon")},
	"polyline":       {start: gStart, end: verticesEnd("polyline")},
	"radialgradient": {start: radialGradientStart, end: popScope("gradient")},
	"rect":           {start: gStart, end: rectEnd, resetOrigin: true},
	"stop":           {end: stopEnd},
	"style":          {end: styleEnd},
	"svg":            {start: svgStart, ready: svgReady, end: svgEnd},
	"symbol":         {start: pushScope("symbol"), end: popScope("symbol")},
	"text":           {start: textStart, end: textEnd, resetOrigin: true},
	"title":          {end: titleEnd},
	"tspan":          {start: tspanStart, end: tspanEnd},
	"use":            {start: gStart, end: useEnd, resetOrigin: true},
}

func gStart(b *Builder, f *drawingContext) { b.pushGraphicContext(f.id) }

func gEnd(b *Builder, _ *drawingContext) { b.popGraphicContext() }

func pushScope(kind string) func(*Builder, *drawingContext) {
	return func(b *Builder, _ *drawingContext) { b.emit("push", kind) }
}

func popScope(kind string) func(*Builder, *drawingContext) {
	return func(b *Builder, _ *drawingContext) { b.emit("pop", kind) }
}

func clipPathStart(b *Builder, f *drawingContext) {
	b.emit("push", "clip-path", mvg.Quote(f.id))
}

func maskStart(b *Builder, f *drawingContext) {
	b.emit("push", "mask", mvg.Quote(f.id))
}

func linearGradientStart(b *Builder, f *drawingContext) {
	s := f.segment
	b.emit("push", "gradient", mvg.Quote(f.id), "linear", mvg.Pt(s.x1, s.y1), mvg.Pt(s.x2, s.y2))
}

func radialGradientStart(b *Builder, f *drawingContext) {
	e := f.element
	fx, fy := e.major, e.minor
	if !f.focusX {
		fx = e.cx
	}
	if !f.focusY {
		fy = e.cy
	}
	b.emit("push", "gradient", mvg.Quote(f.id), "radial", mvg.Pt(e.cx, e.cy), mvg.Pt(fx, fy), mvg.Num(f.gradientRadius))
}

func patternStart(b *Builder, f *drawingContext) {
	r := f.bounds
	b.emit("push", "pattern", mvg.Quote(f.id), mvg.Pt(r.X, r.Y), mvg.Pt(r.W, r.H))
}

func svgStart(b *Builder, f *drawingContext) {
	b.svgDepth++
	b.pushGraphicContext(f.id)
	b.emit("compliance", mvg.Quote("SVG"))
	b.emit("fill", mvg.Quote("black"))
	b.emit("fill-opacity", "1")
	b.emit("stroke", mvg.Quote("none"))
	b.emit("stroke-width", "1")
	b.emit("stroke-opacity", "0")
	b.emit("fill-rule", "nonzero")
	if b.encoding != "" {
		b.emit("encoding", mvg.Quote(b.encoding))
	}
}

// safeReciprocal returns 1/x, bounded for x close to 0.
func safeReciprocal(x float64) float64 {
	sign := 1.
	if x < 0 {
		sign = -1
	}
	if sign*x >= svgunit.Epsilon {
		return 1 / x
	}
	return sign / svgunit.Epsilon
}

// svgReady maps the view box onto the viewport.
func svgReady(b *Builder, f *drawingContext) {
	if f.viewBox.W < svgunit.Epsilon || f.viewBox.H < svgunit.Epsilon {
		f.viewBox = f.bounds
	}
	var width, height float64
	if f.bounds.W >= svgunit.Epsilon {
		width = math.Floor(f.bounds.W + 0.5)
	}
	if f.bounds.H >= svgunit.Epsilon {
		height = math.Floor(f.bounds.H + 0.5)
	}
	b.emit("viewbox", "0", "0", mvg.Num(width), mvg.Num(height))
	sx := safeReciprocal(f.viewBox.W) * width
	sy := safeReciprocal(f.viewBox.H) * height
	var tx, ty float64
	if f.viewBox.X != 0 {
		tx = -sx * f.viewBox.X
	}
	if f.viewBox.Y != 0 {
		ty = -sy * f.viewBox.Y
	}
	b.emit("affine", mvg.Num(sx), "0", "0", mvg.Num(sy), mvg.Num(tx), mvg.Num(ty))
	if b.svgDepth == 1 && f.background != "" {
		b.pushGraphicContext(f.id)
		b.emit("fill", mvg.Quote(f.background))
		b.emit("rectangle", mvg.Pt(0, 0), mvg.Pt(f.viewBox.W, f.viewBox.H))
		b.popGraphicContext()
	}
}

func svgEnd(b *Builder, _ *drawingContext) {
	b.popGraphicContext()
	b.svgDepth--
}

func circleEnd(b *Builder, f *drawingContext) {
	e := f.element
	b.emit("circle", mvg.Pt(e.cx, e.cy), mvg.Pt(e.cx, e.cy+e.minor))
	b.popGraphicContext()
}

func ellipseEnd(b *Builder, f *drawingContext) {
	e := f.element
	b.emit("ellipse", mvg.Pt(e.cx, e.cy), mvg.Pt(e.major, e.minor), mvg.Pt(0, 360))
	b.popGraphicContext()
}

func imageEnd(b *Builder, f *drawingContext) {
	r := f.bounds
	b.emit("image", "Over", mvg.Pt(r.X, r.Y), mvg.Pt(r.W, r.H), mvg.Quote(f.url))
	b.popGraphicContext()
}

func lineEnd(b *Builder, f *drawingContext) {
	s := f.segment
	b.emit("line", mvg.Pt(s.x1, s.y1), mvg.Pt(s.x2, s.y2))
	b.popGraphicContext()
}

func pathEnd(b *Builder, f *drawingContext) {
	b.emit("path", mvg.Quote(f.vertices))
	b.popGraphicContext()
}

// vertexPoints formats the coordinates list of the points attribute
// as `x,y` pairs. A trailing odd coordinate is dropped.
func vertexPoints(vertices string) []string {
	fields := splitList(vertices)
	out := make([]string, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		out = append(out, mvg.Pt(svgunit.Number(fields[i]), svgunit.Number(fields[i+1])))
	}
	return out
}

func verticesEnd(keyword string) func(*Builder, *drawingContext) {
	return func(b *Builder, f *drawingContext) {
		if points := vertexPoints(f.vertices); len(points) != 0 {
			b.emit(keyword, points...)
		} else {
			b.debug("skipping element without points", "element", f.name)
		}
		b.popGraphicContext()
	}
}

func rectEnd(b *Builder, f *drawingContext) {
	r, radius := f.bounds, f.radius
	switch {
	case radius.X == 0 && radius.Y == 0:
		if math.Abs(r.W-1) < svgunit.Epsilon && math.Abs(r.H-1) < svgunit.Epsilon {
			b.emit("point", mvg.Pt(r.X, r.Y))
		} else {
			b.emit("rectangle", mvg.Pt(r.X, r.Y), mvg.Pt(r.X+r.W, r.Y+r.H))
		}
	default:
		if radius.X == 0 {
			radius.X = radius.Y
		}
		if radius.Y == 0 {
			radius.Y = radius.X
		}
		b.emit("roundRectangle", mvg.Pt(r.X, r.Y), mvg.Pt(r.X+r.W, r.Y+r.H), mvg.Pt(radius.X, radius.Y))
	}
	b.popGraphicContext()
}

func stopEnd(b *Builder, f *drawingContext) {
	color, offset := f.stopColor, f.offset
	if color == "" {
		color = "black"
	}
	if offset == "" {
		offset = "100%"
	}
	b.emit("stop-color", mvg.Quote(color), offset)
}

func descEnd(b *Builder, _ *drawingContext) {
	if text := strings.TrimSpace(b.text.String()); text != "" {
		b.enc.Comment(text)
	}
}

func titleEnd(b *Builder, _ *drawingContext) {
	if text := strings.TrimSpace(b.text.String()); text != "" {
		b.title = text
	}
}

func textStart(b *Builder, f *drawingContext) {
	b.text.Reset()
	b.pushGraphicContext(f.id)
	f.textOffset = mvg.Point{X: f.bounds.X, Y: f.bounds.Y}
	f.bounds = svgunit.Bounds{}
}

func textEnd(b *Builder, f *drawingContext) {
	if text := svgunit.StripString(b.text.String(), true); text != "" {
		b.emit("text", mvg.Pt(f.textOffset.X, f.textOffset.Y), mvg.Quote(text))
	}
	b.popGraphicContext()
}

// tspanStart flushes the text of the enclosing element.
func tspanStart(b *Builder, f *drawingContext) {
	if text := b.text.String(); text != "" {
		b.emit("text", mvg.Pt(f.textOffset.X, f.textOffset.Y), mvg.Quote(text))
		b.text.Reset()
	}
	b.pushGraphicContext(f.id)
}

func tspanEnd(b *Builder, f *drawingContext) {
	if text := b.text.String(); text != "" {
		b.emit("text", mvg.Pt(f.bounds.X, f.bounds.Y), mvg.Quote(text))
	}
	b.popGraphicContext()
}

func useEnd(b *Builder, f *drawingContext) {
	if f.bounds.X != 0 || f.bounds.Y != 0 {
		b.emit("translate", mvg.Pt(f.bounds.X, f.bounds.Y))
	}
	b.emit("use", mvg.Quote("url("+f.url+")"))
	b.popGraphicContext()
}

// splitList splits on commas and whitespace.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
