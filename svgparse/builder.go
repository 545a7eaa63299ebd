package svgparse

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// ellipseGeometry stores the center and radii of circles and
// ellipses, and the focus of radial gradients (in major and minor).
type ellipseGeometry struct {
	cx, cy, major, minor float64
}

type segment struct{ x1, y1, x2, y2 float64 }

// drawingContext is the state of one open element.
// A frame is a copy of its parent, with the per-element
// geometry reset.
type drawingContext struct {
	name string // lower cased local name
	id   string

	bounds  svgunit.Bounds
	viewBox svgunit.Bounds

	element        ellipseGeometry
	segment        segment
	radius         mvg.Point // rect corners
	gradientRadius float64
	focusX, focusY bool // set when fx, fy are given

	pointSize    float64
	scale        float64 // unit scale, from nested scale(...)
	currentColor string

	url        string
	vertices   string
	textOffset mvg.Point
	offset     string
	stopColor  string
	background string
}

// child returns the frame of a new element nested in c.
func (c drawingContext) child(name string) drawingContext {
	return drawingContext{
		name:         name,
		bounds:       c.bounds,
		viewBox:      c.viewBox,
		pointSize:    c.pointSize,
		scale:        c.scale,
		currentColor: c.currentColor,
		textOffset:   c.textOffset,
	}
}

func (c *drawingContext) lengths() svgunit.Resolver {
	return svgunit.Resolver{ViewBox: c.viewBox, PointSize: c.pointSize, Scale: c.scale}
}

func (c *drawingContext) length(v string, axis svgunit.Axis) float64 {
	return c.lengths().Length(v, axis)
}

// Builder turns SVG events into directives.
// It is not safe for concurrent use; independent
// conversions must use their own Builder.
type Builder struct {
	opts Options
	enc  *mvg.Encoder

	// frames[0] is the document root, which has no element
	frames   []drawingContext
	text     strings.Builder // character data of the current element
	svgDepth int
	title    string
	comments []string
	encoding string // declared charset of the document

	line int // position in the source, for error messages
	err  error
}

// NewBuilder returns a builder writing to w.
func NewBuilder(w io.Writer, opts Options) *Builder {
	pointSize := opts.PointSize
	if pointSize <= 0 {
		pointSize = 12
	}
	root := drawingContext{pointSize: pointSize, scale: 1, currentColor: "none"}
	return &Builder{opts: opts, enc: mvg.NewEncoder(w), frames: []drawingContext{root}}
}

// Title returns the content of the last <title> element.
func (b *Builder) Title() string { return b.title }

// Comments returns the XML comments of the document.
func (b *Builder) Comments() []string { return b.comments }

// SetEncoding records the charset declared by the document,
// written as an encoding directive by each svg element.
func (b *Builder) SetEncoding(name string) { b.encoding = name }

// Depth returns the number of open elements.
func (b *Builder) Depth() int { return len(b.frames) - 1 }

func (b *Builder) current() *drawingContext { return &b.frames[len(b.frames)-1] }

func (b *Builder) emit(keyword string, args ...string) { b.enc.Directive(keyword, args...) }

func (b *Builder) pushGraphicContext(id string) {
	if id == "" {
		b.emit("push", "graphic-context")
	} else {
		b.emit("push", "graphic-context", mvg.Quote(id))
	}
}

func (b *Builder) popGraphicContext() { b.emit("pop", "graphic-context") }

func (b *Builder) fatal(kind mvg.ErrorKind, keyword string, err error) error {
	b.err = mvg.NewError(kind, keyword, b.line, err)
	return b.err
}

// unsupported applies the error mode.
func (b *Builder) unsupported(msg, keyword string) error {
	if err := mvg.Unsupported(b.opts.ErrorMode, b.opts.Logger, msg, keyword, b.line); err != nil {
		b.err = err
		return err
	}
	return nil
}

// debug logs at verbosity 1, in WarnErrorMode only.
func (b *Builder) debug(msg string, keysAndValues ...interface{}) {
	if b.opts.ErrorMode != mvg.WarnErrorMode || b.opts.Logger.GetSink() == nil {
		return
	}
	b.opts.Logger.V(1).Info(msg, keysAndValues...)
}

// localName strips the namespace prefix and lower cases name.
func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// StartElement opens the element `name`: a frame is pushed, the
// geometry attributes are read, the opening directives are written,
// then every attribute is processed in order.
func (b *Builder) StartElement(name string, attrs []xml.Attr) error {
	if b.err != nil {
		return b.err
	}
	name = localName(name)
	if limit := b.opts.MaxDepth; limit > 0 && b.Depth() >= limit {
		return b.fatal(mvg.StructuralError, name, mvg.ErrMaxDepth)
	}
	b.frames = append(b.frames, b.current().child(name))
	f := b.current()

	handler, known := elements[name]
	if handler.resetOrigin {
		f.bounds.X, f.bounds.Y = 0, 0
	}
	for _, attr := range attrs {
		if fn, ok := geometryAttrs[localName(attr.Name.Local)]; ok {
			fn(b, f, attr.Value)
		}
	}

	if !known {
		return b.unsupported("cannot process svg element", name)
	}
	if handler.start != nil {
		handler.start(b, f)
	}
	for _, attr := range attrs {
		key := localName(attr.Name.Local)
		fn, ok := attributes[key]
		if !ok {
			b.debug("ignoring svg attribute", "element", name, "attribute", key)
			continue
		}
		if err := fn(b, f, attr.Value); err != nil {
			return err
		}
	}
	if handler.ready != nil && len(attrs) != 0 {
		handler.ready(b, f)
	}
	return nil
}

// EndElement closes the innermost element, which must be `name`.
func (b *Builder) EndElement(name string) error {
	if b.err != nil {
		return b.err
	}
	name = localName(name)
	if b.Depth() == 0 || b.current().name != name {
		return b.fatal(mvg.StructuralError, name, mvg.ErrUnbalanced)
	}
	defer b.popFrame()
	if handler, ok := elements[name]; ok && handler.end != nil {
		handler.end(b, b.current())
	}
	return nil
}

func (b *Builder) popFrame() {
	b.text.Reset()
	b.frames = b.frames[:len(b.frames)-1]
}

// CharData accumulates text content, with comments removed
// and newlines replaced by spaces.
func (b *Builder) CharData(data []byte) {
	b.text.WriteString(svgunit.StripString(string(data), false))
}

// Comment records an XML comment.
func (b *Builder) Comment(data []byte) {
	b.comments = append(b.comments, string(data))
}

// Close checks that every element has been closed
// and flushes the output.
func (b *Builder) Close() error {
	if b.err != nil {
		b.enc.Flush()
		return b.err
	}
	if b.Depth() != 0 {
		b.fatal(mvg.StructuralError, b.current().name, mvg.ErrUnbalanced)
		b.enc.Flush()
		return b.err
	}
	return b.enc.Flush()
}
