package mvg

import (
	"strings"

	"github.com/benoitkugler/svgmvg/svgunit"
)

// Tokenizer splits a directive stream into tokens:
// quoted strings ("..." or '...' with backslash escapes, or {...}),
// single commas, numbers (with an optional trailing '%')
// and words (extended over balanced parenthesis, as in rgb(1,2,3)).
type Tokenizer struct {
	src  string
	pos  int
	line int
}

// NewTokenizer starts reading src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src, line: 1}
}

// Line returns the current 1-based line.
func (t *Tokenizer) Line() int { return t.line }

// EOF returns true when only whitespace is left.
func (t *Tokenizer) EOF() bool {
	t.skipSpace()
	return t.pos >= len(t.src)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func (t *Tokenizer) skipSpace() {
	for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
		if t.src[t.pos] == '\n' {
			t.line++
		}
		t.pos++
	}
}

// Comment consumes a comment line, if any, and returns
// its content, without the leading '#'.
func (t *Tokenizer) Comment() (string, bool) {
	t.skipSpace()
	if t.pos >= len(t.src) || t.src[t.pos] != '#' {
		return "", false
	}
	start := t.pos + 1
	end := strings.IndexByte(t.src[start:], '\n')
	if end < 0 {
		t.pos = len(t.src)
	} else {
		t.pos = start + end
	}
	return strings.TrimSuffix(t.src[start:t.pos], "\r"), true
}

// RestOfLine consumes and returns the remaining of the current line.
func (t *Tokenizer) RestOfLine() string {
	start := t.pos
	end := strings.IndexByte(t.src[start:], '\n')
	if end < 0 {
		t.pos = len(t.src)
	} else {
		t.pos = start + end
	}
	return t.src[start:t.pos]
}

// Next returns the next token, or false at the end of the stream.
func (t *Tokenizer) Next() (string, bool) {
	t.skipSpace()
	if t.pos >= len(t.src) {
		return "", false
	}
	switch c := t.src[t.pos]; c {
	case '"', '\'':
		return t.quoted(c), true
	case '{':
		return t.braced(), true
	case ',':
		t.pos++
		return ",", true
	}
	if _, n := svgunit.ParseNumber(t.src[t.pos:]); n > 0 {
		start := t.pos
		t.pos += n
		if t.pos < len(t.src) && t.src[t.pos] == '%' {
			t.pos++
		}
		return t.src[start:t.pos], true
	}
	return t.word(), true
}

func (t *Tokenizer) quoted(quote byte) string {
	var b strings.Builder
	t.pos++ // opening quote
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		t.pos++
		switch {
		case c == '\\' && t.pos < len(t.src):
			b.WriteByte(t.src[t.pos])
			t.pos++
			continue
		case c == quote:
			return b.String()
		case c == '\n':
			t.line++
		}
		b.WriteByte(c)
	}
	return b.String() // unterminated: up to the end
}

func (t *Tokenizer) braced() string {
	start := t.pos + 1
	depth := 0
	for ; t.pos < len(t.src); t.pos++ {
		switch t.src[t.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				t.pos++
				return t.src[start : t.pos-1]
			}
		case '\n':
			t.line++
		}
	}
	return t.src[start:]
}

func (t *Tokenizer) word() string {
	start := t.pos
	depth := 0
	for ; t.pos < len(t.src); t.pos++ {
		c := t.src[t.pos]
		if depth == 0 && (isSpace(c) || c == ',') {
			break
		}
		if c == '(' {
			depth++
		} else if c == ')' && depth > 0 {
			depth--
		}
	}
	return t.src[start:t.pos]
}

// IsPoint returns true if the next token starts with a number.
// Nothing is consumed.
func (t *Tokenizer) IsPoint() bool {
	t.skipSpace()
	_, n := svgunit.ParseNumber(t.src[t.pos:])
	return n > 0
}

// Peek returns the next token, without consuming it.
func (t *Tokenizer) Peek() string {
	pos, line := t.pos, t.line
	tok, _ := t.Next()
	t.pos, t.line = pos, line
	return tok
}

// Number reads a number, skipping a leading comma.
// Malformed numbers are read as 0.
func (t *Tokenizer) Number() float64 {
	tok, _ := t.Next()
	if tok == "," {
		tok, _ = t.Next()
	}
	return svgunit.Number(tok)
}

// Numbers reads n numbers, separated by commas or spaces.
func (t *Tokenizer) Numbers(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t.Number()
	}
	return out
}

// Point reads a point `x,y` (or `x y`), and an optional trailing comma.
func (t *Tokenizer) Point() Point {
	x := t.Number()
	y := t.Number()
	if t.Peek() == "," {
		t.Next()
	}
	return Point{X: x, Y: y}
}
