package svgparse

import (
	"strings"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// attrFunc processes the value of one attribute (or style property).
type attrFunc func(b *Builder, f *drawingContext, value string) error

// geometryAttrs are read before the opening directives of
// an element are written, since they may be part of them.
var geometryAttrs = map[string]func(b *Builder, f *drawingContext, value string){
	"cx":     func(_ *Builder, f *drawingContext, v string) { f.element.cx = f.length(v, svgunit.Horizontal) },
	"cy":     func(_ *Builder, f *drawingContext, v string) { f.element.cy = f.length(v, svgunit.Vertical) },
	"fx":     fxG,
	"fy":     fyG,
	"height": func(_ *Builder, f *drawingContext, v string) { f.bounds.H = f.length(v, svgunit.Vertical) },
	"id":     func(_ *Builder, f *drawingContext, v string) { f.id = v },
	"r":      func(_ *Builder, f *drawingContext, v string) { f.gradientRadius = f.length(v, svgunit.Diagonal) },
	"width":  func(_ *Builder, f *drawingContext, v string) { f.bounds.W = f.length(v, svgunit.Horizontal) },
	"x":      func(_ *Builder, f *drawingContext, v string) { f.bounds.X = f.length(v, svgunit.Horizontal) },
	"x1":     func(_ *Builder, f *drawingContext, v string) { f.segment.x1 = f.length(v, svgunit.Horizontal) },
	"x2":     func(_ *Builder, f *drawingContext, v string) { f.segment.x2 = f.length(v, svgunit.Horizontal) },
	"y":      func(_ *Builder, f *drawingContext, v string) { f.bounds.Y = f.length(v, svgunit.Vertical) },
	"y1":     func(_ *Builder, f *drawingContext, v string) { f.segment.y1 = f.length(v, svgunit.Vertical) },
	"y2":     func(_ *Builder, f *drawingContext, v string) { f.segment.y2 = f.length(v, svgunit.Vertical) },
}

func fxG(_ *Builder, f *drawingContext, v string) {
	f.element.major = f.length(v, svgunit.Horizontal)
	f.focusX = true
}

func fyG(_ *Builder, f *drawingContext, v string) {
	f.element.minor = f.length(v, svgunit.Vertical)
	f.focusY = true
}

// geometry adapts a geometry attribute to an attrFunc.
func geometry(key string) attrFunc {
	fn := geometryAttrs[key]
	return func(b *Builder, f *drawingContext, v string) error {
		fn(b, f, v)
		return nil
	}
}

// quoted forwards the value as a string argument.
func quoted(keyword string) attrFunc {
	return func(b *Builder, _ *drawingContext, v string) error {
		b.emit(keyword, mvg.Quote(v))
		return nil
	}
}

// length forwards the value resolved as a length.
func length(keyword string, axis svgunit.Axis) attrFunc {
	return func(b *Builder, f *drawingContext, v string) error {
		b.emit(keyword, mvg.Num(f.length(v, axis)))
		return nil
	}
}

// boolean forwards 1 for "true", 0 otherwise.
func boolean(keyword string) attrFunc {
	return func(b *Builder, _ *drawingContext, v string) error {
		flag := "0"
		if strings.EqualFold(strings.TrimSpace(v), "true") {
			flag = "1"
		}
		b.emit(keyword, flag)
		return nil
	}
}

// store saves the value in a field of the frame.
func store(field func(f *drawingContext) *string) attrFunc {
	return func(_ *Builder, f *drawingContext, v string) error {
		*field(f) = v
		return nil
	}
}

// paint handles fill and stroke, substituting the currentColor keyword.
func paint(keyword string) attrFunc {
	return func(b *Builder, f *drawingContext, v string) error {
		switch {
		case strings.EqualFold(v, "currentColor"):
			v = f.currentColor
		case strings.EqualFold(v, "#000000ff"):
			v = "#000000"
		}
		b.emit(keyword, mvg.Quote(v))
		return nil
	}
}

func fontSizeF(b *Builder, f *drawingContext, v string) error {
	size, ok := svgunit.NamedFontSize(strings.TrimSpace(v))
	if !ok {
		size = f.length(v, svgunit.Diagonal)
	}
	f.pointSize = size
	b.emit("font-size", mvg.Num(size))
	return nil
}

func classF(b *Builder, _ *drawingContext, v string) error {
	if fields := splitList(v); len(fields) == 0 {
		v = "none"
	}
	b.emit("class", mvg.Quote(v))
	return nil
}

func textDecorationF(b *Builder, _ *drawingContext, v string) error {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case "underline", "line-through", "overline":
		b.emit("decorate", v)
	}
	return nil
}

// dashArrayF resolves the dashes so that the directive only
// contains plain numbers.
func dashArrayF(b *Builder, f *drawingContext, v string) error {
	fields := splitList(v)
	if len(fields) == 0 || strings.EqualFold(fields[0], "none") {
		b.emit("stroke-dasharray", "none")
		return nil
	}
	dashes := make([]string, len(fields))
	for i, d := range fields {
		dashes[i] = mvg.Num(f.length(d, svgunit.Horizontal))
	}
	b.emit("stroke-dasharray", strings.Join(dashes, ","))
	return nil
}

func dxF(b *Builder, f *drawingContext, v string) error {
	dx := f.length(v, svgunit.Horizontal)
	f.bounds.X += dx
	f.textOffset.X += dx
	if f.name == "text" {
		b.emit("translate", mvg.Pt(dx, 0))
	}
	return nil
}

func dyF(b *Builder, f *drawingContext, v string) error {
	dy := f.length(v, svgunit.Vertical)
	f.bounds.Y += dy
	f.textOffset.Y += dy
	if f.name == "text" {
		b.emit("translate", mvg.Pt(0, dy))
	}
	return nil
}

func radiusF(b *Builder, f *drawingContext, v string) error {
	f.element.major = f.length(v, svgunit.Horizontal)
	f.element.minor = f.length(v, svgunit.Vertical)
	return nil
}

func rxF(b *Builder, f *drawingContext, v string) error {
	if f.name == "ellipse" {
		f.element.major = f.length(v, svgunit.Horizontal)
	} else {
		f.radius.X = f.length(v, svgunit.Horizontal)
	}
	return nil
}

func ryF(b *Builder, f *drawingContext, v string) error {
	if f.name == "ellipse" {
		f.element.minor = f.length(v, svgunit.Vertical)
	} else {
		f.radius.Y = f.length(v, svgunit.Vertical)
	}
	return nil
}

// rotateF handles the rotate attribute of text elements: the
// origin is moved to (x, y) before rotating.
func rotateF(b *Builder, f *drawingContext, v string) error {
	angle := f.length(v, svgunit.Diagonal)
	b.emit("translate", mvg.Pt(f.bounds.X, f.bounds.Y))
	f.bounds.X, f.bounds.Y = 0, 0
	b.emit("rotate", mvg.Num(angle))
	return nil
}

// transformF writes the transform list as a single affine directive.
// Malformed lists are applied up to the first error.
func transformF(b *Builder, f *drawingContext, v string) error {
	tr, err := svgmatrix.ParseTransform(v, f.lengths())
	if err != nil {
		if err := b.unsupported("invalid transform", v); err != nil {
			return err
		}
	}
	if tr.Scale != 0 {
		f.scale = tr.Scale
	}
	m := tr.Matrix
	b.emit("affine", mvg.Num(m.A), mvg.Num(m.B), mvg.Num(m.C), mvg.Num(m.D), mvg.Num(m.E), mvg.Num(m.F))
	return nil
}

func viewBoxF(_ *Builder, f *drawingContext, v string) error {
	var values [4]float64
	for i, field := range splitList(v) {
		if i >= len(values) {
			break
		}
		values[i] = svgunit.Number(field)
	}
	f.viewBox = svgunit.Bounds{X: values[0], Y: values[1], W: values[2], H: values[3]}
	if f.bounds.W < svgunit.Epsilon {
		f.bounds.W = f.viewBox.W
	}
	if f.bounds.H < svgunit.Epsilon {
		f.bounds.H = f.viewBox.H
	}
	return nil
}

func styleAttrF(b *Builder, f *drawingContext, v string) error {
	return b.processStyle(f, svgunit.Pairs(svgunit.KeyValuePairs(v, ':', ';')))
}

var attributes map[string]attrFunc

func init() {
	// avoids an initialization cycle through the style attribute
	attributes = map[string]attrFunc{
		"angle":             length("angle", svgunit.Diagonal),
		"class":             classF,
		"clip-path":         quoted("clip-path"),
		"clip-rule":         quoted("clip-rule"),
		"clippathunits":     quoted("clip-units"),
		"color":             store(func(f *drawingContext) *string { return &f.currentColor }),
		"cx":                geometry("cx"),
		"cy":                geometry("cy"),
		"d":                 store(func(f *drawingContext) *string { return &f.vertices }),
		"dx":                dxF,
		"dy":                dyF,
		"fill":              paint("fill"),
		"fillcolor":         quoted("fill"),
		"fill-opacity":      quoted("fill-opacity"),
		"fill-rule":         quoted("fill-rule"),
		"font-family":       quoted("font-family"),
		"font-size":         fontSizeF,
		"font-stretch":      quoted("font-stretch"),
		"font-style":        quoted("font-style"),
		"font-weight":       quoted("font-weight"),
		"fx":                geometry("fx"),
		"fy":                geometry("fy"),
		"gradienttransform": transformF,
		"gradientunits":     quoted("gradient-units"),
		"height":            geometry("height"),
		"href":              store(func(f *drawingContext) *string { return &f.url }),
		"id":                geometry("id"),
		"kerning":           quoted("kerning"),
		"letter-spacing":    quoted("letter-spacing"),
		"major":             func(_ *Builder, f *drawingContext, v string) error { f.element.major = f.length(v, svgunit.Horizontal); return nil },
		"mask":              quoted("mask"),
		"minor":             func(_ *Builder, f *drawingContext, v string) error { f.element.minor = f.length(v, svgunit.Vertical); return nil },
		"offset":            store(func(f *drawingContext) *string { return &f.offset }),
		"opacity":           quoted("opacity"),
		"path":              store(func(f *drawingContext) *string { return &f.url }),
		"points":            store(func(f *drawingContext) *string { return &f.vertices }),
		"r":                 radiusF,
		"rotate":            rotateF,
		"rx":                rxF,
		"ry":                ryF,
		"stop-color":        store(func(f *drawingContext) *string { return &f.stopColor }),
		"stroke":            paint("stroke"),
		"stroke-antialiasing": boolean("stroke-antialias"),
		"stroke-dasharray":  dashArrayF,
		"stroke-dashoffset": length("stroke-dashoffset", svgunit.Horizontal),
		"stroke-linecap":    quoted("stroke-linecap"),
		"stroke-linejoin":   quoted("stroke-linejoin"),
		"stroke-miterlimit": quoted("stroke-miterlimit"),
		"stroke-opacity":    quoted("stroke-opacity"),
		"stroke-width":      length("stroke-width", svgunit.Horizontal),
		"style":             styleAttrF,
		"text-align":        quoted("text-align"),
		"text-anchor":       quoted("text-anchor"),
		"text-antialiasing": boolean("text-antialias"),
		"text-decoration":   textDecorationF,
		"transform":         transformF,
		"verts":             store(func(f *drawingContext) *string { return &f.vertices }),
		"viewbox":           viewBoxF,
		"width":             geometry("width"),
		"x":                 geometry("x"),
		"x1":                geometry("x1"),
		"x2":                geometry("x2"),
		"y":                 geometry("y"),
		"y1":                geometry("y1"),
		"y2":                geometry("y2"),
	}
}
