package mvg

import (
	"io"
	"math"
	"strings"

	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// styleKeywords are forwarded to Handler.Style, with their single argument.
var styleKeywords = map[string]bool{
	"class":             true,
	"clip-path":         true,
	"clip-rule":         true,
	"clip-units":        true,
	"compliance":        true,
	"currentcolor":      true,
	"decorate":          true,
	"encoding":          true,
	"fill":              true,
	"fill-opacity":      true,
	"fill-rule":         true,
	"font-family":       true,
	"font-size":         true,
	"font-stretch":      true,
	"font-style":        true,
	"font-weight":       true,
	"gradient-units":    true,
	"kerning":           true,
	"letter-spacing":    true,
	"mask":              true,
	"offset":            true,
	"opacity":           true,
	"stroke":            true,
	"stroke-antialias":  true,
	"stroke-dashoffset": true,
	"stroke-linecap":    true,
	"stroke-linejoin":   true,
	"stroke-miterlimit": true,
	"stroke-opacity":    true,
	"stroke-width":      true,
	"text-align":        true,
	"text-anchor":       true,
	"text-antialias":    true,
}

// canonical spelling of the keywords whose case matters downstream
var styleNames = map[string]string{
	"currentcolor": "currentColor",
}

// keywordFunc handles the arguments of one directive.
type keywordFunc func(in *Interpreter, keyword string) error

var keywordFuncs map[string]keywordFunc

func init() {
	// avoids an initialization cycle through Interpreter.Run
	keywordFuncs = map[string]keywordFunc{
		"affine":           affineF,
		"translate":        translateF,
		"scale":            scaleF,
		"rotate":           rotateF,
		"angle":            rotateF,
		"skewx":            skewXF,
		"skewy":            skewYF,
		"viewbox":          viewboxF,
		"push":             pushF,
		"pop":              popF,
		"stop-color":       stopColorF,
		"stroke-dasharray": dashArrayF,
		"use":              useF,
		";":                func(*Interpreter, string) error { return nil },
	}
}

// Interpreter validates a directive stream and forwards
// it to a Handler.
type Interpreter struct {
	h    Handler
	opts Options
	tk   *Tokenizer

	scopes  []ScopeKind // opened scopes
	gcDepth int         // signed graphic-context counter
}

// NewInterpreter returns an interpreter sending its output to h.
func NewInterpreter(h Handler, opts Options) *Interpreter {
	return &Interpreter{h: h, opts: opts}
}

// Interpret reads the whole directive stream from r and runs it.
func Interpret(r io.Reader, h Handler, opts Options) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return NewInterpreter(h, opts).Run(string(src))
}

// InterpretString is the same as Interpret, for an in-memory stream.
func InterpretString(src string, h Handler, opts Options) error {
	return NewInterpreter(h, opts).Run(src)
}

// Depth returns the current graphic-context nesting.
func (in *Interpreter) Depth() int { return in.gcDepth }

func (in *Interpreter) structural(keyword string, err error) error {
	return NewError(StructuralError, keyword, in.tk.Line(), err)
}

// Run processes the stream `src`. Processing stops at the first
// fatal error; the output already sent to the handler is not reverted.
func (in *Interpreter) Run(src string) error {
	in.tk = NewTokenizer(src)
	for {
		if text, ok := in.tk.Comment(); ok {
			if err := in.h.Comment(text); err != nil {
				return err
			}
			continue
		}
		keyword, ok := in.tk.Next()
		if !ok {
			break
		}
		if err := in.directive(keyword); err != nil {
			return err
		}
	}
	if len(in.scopes) != 0 {
		return in.structural(in.scopes[len(in.scopes)-1].String(), ErrUnbalanced)
	}
	return nil
}

func (in *Interpreter) directive(keyword string) error {
	lower := strings.ToLower(keyword)
	if fn, ok := keywordFuncs[lower]; ok {
		return fn(in, lower)
	}
	if styleKeywords[lower] {
		value, _ := in.tk.Next()
		name := lower
		if canon, ok := styleNames[lower]; ok {
			name = canon
		}
		return in.h.Style(name, value)
	}
	if kind, ok := primitiveByKeyword[lower]; ok {
		return in.primitive(kind, keyword)
	}
	line := in.tk.Line()
	in.tk.RestOfLine()
	return Unsupported(in.opts.ErrorMode, in.opts.Logger, "cannot process mvg keyword", keyword, line)
}

func (in *Interpreter) primitive(kind PrimitiveKind, keyword string) error {
	line := in.tk.Line()
	p := Primitive{Kind: kind, Method: FloodfillMethod}
	if kind == ImagePrimitive {
		p.Compose, _ = in.tk.Next()
	}
	for in.tk.IsPoint() {
		p.Points = append(p.Points, in.tk.Point())
		if limit := in.opts.MaxPrimitivePoints; limit > 0 && len(p.Points) > limit {
			return NewError(ResourceError, keyword, line, ErrResourceLimit)
		}
	}
	if !arities[kind].accept(len(p.Points)) {
		return NewError(StructuralError, keyword, line, ErrArity)
	}
	switch kind {
	case PolygonPrimitive:
		p.Points = append(p.Points, p.Points[0])
	case PathPrimitive, TextPrimitive, ImagePrimitive:
		p.Text, _ = in.tk.Next()
	case ColorPrimitive, AlphaPrimitive:
		method, _ := in.tk.Next()
		p.Method, _ = parsePaintMethod(method)
	}
	return in.h.Primitive(p)
}

func affineF(in *Interpreter, _ string) error {
	v := in.tk.Numbers(6)
	return in.h.Transform(svgmatrix.Matrix2D{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]})
}

func translateF(in *Interpreter, _ string) error {
	v := in.tk.Numbers(2)
	return in.h.Transform(svgmatrix.Identity.Translate(v[0], v[1]))
}

func scaleF(in *Interpreter, _ string) error {
	v := in.tk.Numbers(2)
	return in.h.Transform(svgmatrix.Identity.Scale(v[0], v[1]))
}

func degrees(angle float64) float64 { return math.Mod(angle, 360) * math.Pi / 180 }

func rotateF(in *Interpreter, _ string) error {
	return in.h.Transform(svgmatrix.Identity.Rotate(degrees(in.tk.Number())))
}

func skewXF(in *Interpreter, _ string) error {
	return in.h.Transform(svgmatrix.Identity.SkewX(degrees(in.tk.Number())))
}

func skewYF(in *Interpreter, _ string) error {
	return in.h.Transform(svgmatrix.Identity.SkewY(degrees(in.tk.Number())))
}

func viewboxF(in *Interpreter, _ string) error {
	v := in.tk.Numbers(4)
	return in.h.Viewbox(svgunit.Bounds{X: v[0], Y: v[1], W: v[2], H: v[3]})
}

func stopColorF(in *Interpreter, _ string) error {
	color, _ := in.tk.Next()
	offset, _ := in.tk.Next()
	return in.h.StopColor(color, offset)
}

func useF(in *Interpreter, _ string) error {
	href, _ := in.tk.Next()
	return in.h.Use(href)
}

// dashArrayF reads either `none` or a list of numbers.
func dashArrayF(in *Interpreter, keyword string) error {
	if !in.tk.IsPoint() {
		value, _ := in.tk.Next()
		return in.h.Style(keyword, value)
	}
	var dashes []string
	for in.tk.IsPoint() {
		dashes = append(dashes, Num(in.tk.Number()))
		if in.tk.Peek() == "," {
			in.tk.Next()
		}
	}
	return in.h.Style(keyword, strings.Join(dashes, ","))
}

func pushF(in *Interpreter, keyword string) error {
	tok, _ := in.tk.Next()
	kind, ok := parseScopeKind(tok)
	if !ok {
		line := in.tk.Line()
		in.tk.RestOfLine()
		return Unsupported(in.opts.ErrorMode, in.opts.Logger, "cannot process mvg scope", keyword+" "+tok, line)
	}
	if limit := in.opts.MaxDepth; limit > 0 && len(in.scopes) >= limit {
		return in.structural(keyword+" "+tok, ErrMaxDepth)
	}
	scope := Scope{Kind: kind}
	switch kind {
	case GraphicContext:
		// optional id, given as a quoted string on the same line
		if rest := strings.TrimSpace(in.peekLine()); strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, "'") {
			scope.ID, _ = in.tk.Next()
		}
		in.gcDepth++
	case ClipPathScope, MaskScope, ClassScope:
		scope.ID, _ = in.tk.Next()
	case GradientScope:
		scope.ID, _ = in.tk.Next()
		kindTok, _ := in.tk.Next()
		if strings.EqualFold(kindTok, "radial") {
			v := in.tk.Numbers(5)
			scope.Gradient = GradientDefinition{Kind: RadialGradient, CX: v[0], CY: v[1], FX: v[2], FY: v[3], R: v[4]}
		} else {
			v := in.tk.Numbers(4)
			scope.Gradient = GradientDefinition{Kind: LinearGradient, X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
		}
	case PatternScope:
		scope.ID, _ = in.tk.Next()
		v := in.tk.Numbers(4)
		scope.Bounds = svgunit.Bounds{X: v[0], Y: v[1], W: v[2], H: v[3]}
	}
	in.scopes = append(in.scopes, kind)
	return in.h.Push(scope)
}

// peekLine returns the remaining of the current line, without consuming it.
func (in *Interpreter) peekLine() string {
	rest := in.tk.src[in.tk.pos:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func popF(in *Interpreter, keyword string) error {
	tok, _ := in.tk.Next()
	kind, ok := parseScopeKind(tok)
	if !ok {
		line := in.tk.Line()
		in.tk.RestOfLine()
		return Unsupported(in.opts.ErrorMode, in.opts.Logger, "cannot process mvg scope", keyword+" "+tok, line)
	}
	if kind == GraphicContext {
		in.gcDepth--
		if in.gcDepth < 0 {
			return in.structural(keyword+" "+tok, ErrUnbalanced)
		}
	}
	if len(in.scopes) == 0 || in.scopes[len(in.scopes)-1] != kind {
		return in.structural(keyword+" "+tok, ErrUnbalanced)
	}
	in.scopes = in.scopes[:len(in.scopes)-1]
	return in.h.Pop(kind)
}
