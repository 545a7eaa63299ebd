package svgdraw

import (
	"errors"
	"image/color"
	"strings"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgpath"
	"github.com/benoitkugler/svgmvg/svgunit"
)

var _ mvg.Handler = (*Painter)(nil)

// shape is a recorded outline, with its transform
// relative to the graphic context which defined it.
type shape struct {
	path  svgpath.Path
	style PathStyle
}

type recording struct {
	id     string
	depth  int // size of the style stack when started
	base   svgmatrix.Matrix2D
	shapes []shape
}

// Painter is an mvg.Handler drawing the primitives
// on a Driver. It tracks the graphic state (paint, stroke
// options and current transform) of the nested graphic contexts.
// Text, images and flood fills are not rendered.
type Painter struct {
	driver Driver
	opts   mvg.Options

	// Opacity is applied on top of the fill and stroke opacities.
	Opacity float64
	// ViewBox is the first viewbox directive seen.
	ViewBox svgunit.Bounds

	styles []PathStyle

	hidden     int // depth of the non drawn scopes (defs, clip-path, ...)
	classDepth int

	gradients map[string]*svgpath.Gradient
	gradient  *svgpath.Gradient // inside a gradient scope

	recordings []recording
	defs       map[string][]shape
}

// NewPainter returns a painter drawing on `d`. The error mode and the
// logger of `opts` apply to invalid paints and path data.
func NewPainter(d Driver, opts mvg.Options) *Painter {
	return &Painter{
		driver:    d,
		opts:      opts,
		Opacity:   1,
		styles:    []PathStyle{DefaultStyle},
		gradients: make(map[string]*svgpath.Gradient),
		defs:      make(map[string][]shape),
	}
}

func (p *Painter) top() *PathStyle { return &p.styles[len(p.styles)-1] }

func (p *Painter) debug(msg string, keysAndValues ...interface{}) {
	if p.opts.Logger.GetSink() == nil {
		return
	}
	p.opts.Logger.V(1).Info(msg, keysAndValues...)
}

func (p *Painter) unsupported(msg, keyword string) error {
	return mvg.Unsupported(p.opts.ErrorMode, p.opts.Logger, msg, keyword, 0)
}

func (*Painter) Comment(string) error { return nil }

func (p *Painter) Push(scope mvg.Scope) error {
	switch scope.Kind {
	case mvg.GraphicContext:
		p.styles = append(p.styles, *p.top())
		if scope.ID != "" {
			p.recordings = append(p.recordings, recording{id: scope.ID, depth: len(p.styles), base: p.top().Transform})
		}
		return nil
	case mvg.GradientScope:
		g := &svgpath.Gradient{Matrix: svgmatrix.Identity, Units: svgpath.UserSpaceOnUse}
		def := scope.Gradient
		if def.Kind == mvg.RadialGradient {
			g.Direction = svgpath.Radial{def.CX, def.CY, def.FX, def.FY, def.R, 0}
		} else {
			g.Direction = svgpath.Linear{def.X1, def.Y1, def.X2, def.Y2}
		}
		p.gradients[scope.ID] = g
		p.gradient = g
	case mvg.ClassScope:
		p.classDepth++
	}
	p.hidden++
	return nil
}

func (p *Painter) Pop(kind mvg.ScopeKind) error {
	switch kind {
	case mvg.GraphicContext:
		if len(p.styles) <= 1 {
			return mvg.NewError(mvg.StructuralError, "pop graphic-context", 0, mvg.ErrUnbalanced)
		}
		if n := len(p.recordings); n > 0 && p.recordings[n-1].depth == len(p.styles) {
			rec := p.recordings[n-1]
			p.defs[rec.id] = rec.shapes
			p.recordings = p.recordings[:n-1]
		}
		p.styles = p.styles[:len(p.styles)-1]
		return nil
	case mvg.GradientScope:
		p.gradient = nil
	case mvg.ClassScope:
		if p.classDepth > 0 {
			p.classDepth--
		}
	}
	if p.hidden == 0 {
		return mvg.NewError(mvg.StructuralError, "pop "+kind.String(), 0, mvg.ErrUnbalanced)
	}
	p.hidden--
	return nil
}

// paint resolves a fill or stroke value.
func (p *Painter) paint(value string) (svgpath.Pattern, error) {
	if strings.HasPrefix(value, "url(") {
		id := strings.TrimPrefix(strings.TrimSuffix(strings.TrimPrefix(value, "url("), ")"), "#")
		if g, ok := p.gradients[id]; ok {
			return *g, nil
		}
		// unknown references paint black, as other renderers do
		p.debug("unknown paint reference", "id", id)
		return DefaultStyle.FillerColor, nil
	}
	c, err := ParseColor(value)
	if err != nil || c == nil {
		return nil, err
	}
	return svgpath.PlainColor{NRGBA: color.NRGBAModel.Convert(c).(color.NRGBA)}, nil
}

func parseOpacity(v string) float64 {
	op := svgunit.Number(v)
	if strings.HasSuffix(strings.TrimSpace(v), "%") {
		op /= 100
	}
	if op < 0 {
		return 0
	} else if op > 1 {
		return 1
	}
	return op
}

func (p *Painter) Style(name, value string) error {
	if p.gradient != nil && name == "gradient-units" {
		p.gradient.Units = svgpath.ParseGradientUnits(value)
		return nil
	}
	if p.classDepth > 0 {
		return nil
	}
	style := p.top()
	switch name {
	case "fill", "stroke":
		pattern, err := p.paint(value)
		if err != nil {
			return p.unsupported("invalid paint", name+" "+value)
		}
		if name == "fill" {
			style.FillerColor = pattern
		} else {
			style.LinerColor = pattern
		}
	case "fill-opacity":
		style.FillOpacity = parseOpacity(value)
	case "stroke-opacity":
		style.LineOpacity = parseOpacity(value)
	case "opacity":
		op := parseOpacity(value)
		style.FillOpacity *= op
		style.LineOpacity *= op
	case "fill-rule":
		style.UseNonZeroWinding = !strings.EqualFold(value, "evenodd")
	case "stroke-width":
		style.LineWidth = svgunit.Number(value)
	case "stroke-linecap":
		if c, ok := parseCapMode(strings.ToLower(value)); ok {
			style.Join.TrailLineCap = c
		}
	case "stroke-linejoin":
		if j, ok := parseJoinMode(strings.ToLower(value)); ok {
			style.Join.LineJoin = j
		}
	case "stroke-miterlimit":
		style.Join.MiterLimit = fToFixed(svgunit.Number(value))
	case "stroke-dashoffset":
		style.Dash.DashOffset = svgunit.Number(value)
	case "stroke-dasharray":
		style.Dash.Dash = nil
		if value != "none" {
			for _, d := range strings.Split(value, ",") {
				style.Dash.Dash = append(style.Dash.Dash, svgunit.Number(d))
			}
		}
	}
	return nil
}

func (p *Painter) Transform(m svgmatrix.Matrix2D) error {
	if p.gradient != nil {
		p.gradient.Matrix = p.gradient.Matrix.Mult(m)
		return nil
	}
	style := p.top()
	style.Transform = style.Transform.Mult(m)
	return nil
}

func (p *Painter) StopColor(value, offset string) error {
	if p.gradient == nil {
		return nil
	}
	c, err := ParseColor(value)
	if err != nil {
		return p.unsupported("invalid stop color", "stop-color "+value)
	}
	opacity := 1.
	if c == nil {
		c, opacity = color.NRGBA{}, 0
	}
	p.gradient.AddStop(c, parseOpacity(offset), opacity)
	return nil
}

func (p *Painter) Viewbox(b svgunit.Bounds) error {
	if p.ViewBox == (svgunit.Bounds{}) {
		p.ViewBox = b
	}
	return nil
}

// Use draws the shapes of the graphic context with the given id,
// in the current transform.
func (p *Painter) Use(href string) error {
	id := strings.TrimPrefix(strings.TrimSuffix(strings.TrimPrefix(href, "url("), ")"), "#")
	shapes, ok := p.defs[id]
	if !ok {
		return p.unsupported("unknown reference", "use "+href)
	}
	if p.hidden > 0 {
		return nil
	}
	tr := p.top().Transform
	for _, s := range shapes {
		style := s.style
		style.Transform = tr.Mult(style.Transform)
		p.draw(s.path, style)
	}
	return nil
}

func (p *Painter) Primitive(prim mvg.Primitive) error {
	path, err := PrimitivePath(prim)
	if errors.Is(err, ErrNotRendered) {
		p.debug("primitive not rendered", "kind", prim.Kind.String())
		return nil
	}
	if err != nil {
		if err := p.unsupported(err.Error(), "path"); err != nil {
			return err
		}
	}
	style := *p.top()
	for i := range p.recordings {
		rec := &p.recordings[i]
		rel := style
		rel.Transform = rec.base.Invert().Mult(style.Transform)
		rec.shapes = append(rec.shapes, shape{path: path, style: rel})
	}
	if p.hidden == 0 {
		p.draw(path, style)
	}
	return nil
}

// draw sends the path to the driver, mapping the gradients
// to the device space.
func (p *Painter) draw(path svgpath.Path, style PathStyle) {
	var box *svgunit.Bounds
	bounds := func() svgunit.Bounds {
		if box == nil {
			var device svgpath.Path
			path.AddTo(&device, style.Transform)
			b := device.Bounds()
			box = &b
		}
		return *box
	}
	style.FillerColor = deviceSpace(style.FillerColor, style.Transform, bounds)
	style.LinerColor = deviceSpace(style.LinerColor, style.Transform, bounds)
	DrawPath(p.driver, path, style, p.Opacity)
}

// deviceSpace composes user space gradients with the transform,
// and resolves the bounding box of the other ones.
func deviceSpace(pattern svgpath.Pattern, m svgmatrix.Matrix2D, bounds func() svgunit.Bounds) svgpath.Pattern {
	g, ok := pattern.(svgpath.Gradient)
	if !ok {
		return pattern
	}
	if g.Units == svgpath.UserSpaceOnUse {
		g.Matrix = m.Mult(g.Matrix)
	} else {
		g.Bounds = bounds()
	}
	return g
}

// Paint interprets the MVG stream and draws it on `d`.
func Paint(d Driver, mvgText string, opts mvg.Options) (*Painter, error) {
	p := NewPainter(d, opts)
	err := mvg.InterpretString(mvgText, p, opts)
	return p, err
}
