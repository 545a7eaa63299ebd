package mvg

import (
	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgunit"
)

var _ Handler = (*Recorder)(nil) // assert interface conformance

// Recorder is a Handler storing what it receives, in order.
type Recorder struct {
	Primitives []Primitive
	Scopes     []Scope // pushed scopes
	Pops       []ScopeKind
	Styles     [][2]string
	Transforms []svgmatrix.Matrix2D
	Comments   []string
	Stops      [][2]string
	Uses       []string
	Viewboxes  []svgunit.Bounds
}

func (r *Recorder) Comment(text string) error {
	r.Comments = append(r.Comments, text)
	return nil
}

func (r *Recorder) Push(scope Scope) error {
	r.Scopes = append(r.Scopes, scope)
	return nil
}

func (r *Recorder) Pop(kind ScopeKind) error {
	r.Pops = append(r.Pops, kind)
	return nil
}

func (r *Recorder) Style(name, value string) error {
	r.Styles = append(r.Styles, [2]string{name, value})
	return nil
}

func (r *Recorder) Transform(m svgmatrix.Matrix2D) error {
	r.Transforms = append(r.Transforms, m)
	return nil
}

func (r *Recorder) StopColor(color, offset string) error {
	r.Stops = append(r.Stops, [2]string{color, offset})
	return nil
}

func (r *Recorder) Viewbox(b svgunit.Bounds) error {
	r.Viewboxes = append(r.Viewboxes, b)
	return nil
}

func (r *Recorder) Use(href string) error {
	r.Uses = append(r.Uses, href)
	return nil
}

func (r *Recorder) Primitive(p Primitive) error {
	r.Primitives = append(r.Primitives, p)
	return nil
}

// LastStyle returns the last value recorded for `name`.
func (r *Recorder) LastStyle(name string) (string, bool) {
	for i := len(r.Styles) - 1; i >= 0; i-- {
		if r.Styles[i][0] == name {
			return r.Styles[i][1], true
		}
	}
	return "", false
}
