package mvg

import (
	"bufio"
	"io"
	"strings"

	"github.com/benoitkugler/svgmvg/svgunit"
)

// Encoder writes directives, one per line.
// Write errors are sticky and reported by Flush.
type Encoder struct {
	w   *bufio.Writer
	err error
}

// NewEncoder buffers the output to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

func (e *Encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

// Directive writes `keyword args...` on its own line.
func (e *Encoder) Directive(keyword string, args ...string) {
	e.writeString(keyword)
	for _, a := range args {
		e.writeString(" ")
		e.writeString(a)
	}
	e.writeString("\n")
}

// Comment writes text as comment lines.
func (e *Encoder) Comment(text string) {
	e.writeString("#")
	e.writeString(strings.ReplaceAll(text, "\n", "\n#"))
	e.writeString("\n")
}

// Flush writes any buffered data, and returns the first
// error encountered.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// Num formats a number in its shortest form.
func Num(v float64) string { return svgunit.FormatNumber(v) }

// Pt formats the point `x,y`.
func Pt(x, y float64) string { return Num(x) + "," + Num(y) }

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote returns s as a double quoted string argument.
func Quote(s string) string { return `"` + quoteEscaper.Replace(s) + `"` }
