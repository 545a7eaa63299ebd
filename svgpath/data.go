package svgpath

import (
	"errors"
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

var (
	errNoMoveTo   = errors.New("path data must start with a moveto command")
	errMissingArg = errors.New("missing path argument")
)

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

// pathScanner reads the arguments of the path commands.
type pathScanner struct {
	data []byte
	pos  int
	err  error
}

func (s *pathScanner) num() float64 {
	if s.err != nil {
		return 0
	}
	s.pos += skipCommaWhitespace(s.data[s.pos:])
	f, n := strconv.ParseFloat(s.data[s.pos:])
	if n == 0 {
		s.err = fmt.Errorf("%w at offset %d", errMissingArg, s.pos)
		return 0
	}
	s.pos += n
	return f
}

// flag reads an arc flag, which may be written without separator.
func (s *pathScanner) flag() bool {
	if s.err != nil {
		return false
	}
	s.pos += skipCommaWhitespace(s.data[s.pos:])
	if s.pos < len(s.data) && (s.data[s.pos] == '0' || s.data[s.pos] == '1') {
		s.pos++
		return s.data[s.pos-1] == '1'
	}
	s.err = fmt.Errorf("%w at offset %d: invalid arc flag", errMissingArg, s.pos)
	return false
}

// hasNum returns true if a number follows (implicit command repetition).
func (s *pathScanner) hasNum() bool {
	i := s.pos + skipCommaWhitespace(s.data[s.pos:])
	if i >= len(s.data) {
		return false
	}
	c := s.data[i]
	return c == '-' || c == '+' || c == '.' || ('0' <= c && c <= '9')
}

// ParsePathData parses the d attribute of an SVG path
// (all commands, absolute and relative). Arcs are reduced to cubics.
// On error, the path read so far is returned.
func ParsePathData(d string) (Path, error) {
	var (
		p        Path
		s        = pathScanner{data: []byte(d)}
		x, y     float64 // current point
		sx, sy   float64 // start of the subpath
		cpx, cpy float64 // last control point
		prevCmd  byte
	)
	for {
		s.pos += skipCommaWhitespace(s.data[s.pos:])
		if s.pos >= len(s.data) {
			break
		}
		cmd := s.data[s.pos]
		if isCommand(cmd) {
			s.pos++
		} else if prevCmd == 'Z' || prevCmd == 'z' {
			// closepath takes no argument and is never repeated
			return p, fmt.Errorf("unexpected number after closepath at offset %d", s.pos)
		} else if prevCmd != 0 && s.hasNum() {
			cmd = prevCmd
			// a moveto followed by coordinates is an implicit lineto
			if cmd == 'M' {
				cmd = 'L'
			} else if cmd == 'm' {
				cmd = 'l'
			}
		} else {
			return p, fmt.Errorf("invalid path command %q at offset %d", cmd, s.pos)
		}
		if prevCmd == 0 && cmd != 'M' && cmd != 'm' {
			return p, errNoMoveTo
		}
		relative := 'a' <= cmd && cmd <= 'z'
		abs := func(a, b float64) (float64, float64) {
			if relative {
				return a + x, b + y
			}
			return a, b
		}

		switch cmd {
		case 'M', 'm':
			x, y = abs(s.num(), s.num())
			if s.err != nil {
				break
			}
			sx, sy = x, y
			p.Start(toFixedP(x, y))
		case 'Z', 'z':
			p.Stop(true)
			x, y = sx, sy
		case 'L', 'l':
			x, y = abs(s.num(), s.num())
			if s.err != nil {
				break
			}
			p.Line(toFixedP(x, y))
		case 'H', 'h':
			a := s.num()
			if s.err != nil {
				break
			}
			if relative {
				a += x
			}
			x = a
			p.Line(toFixedP(x, y))
		case 'V', 'v':
			b := s.num()
			if s.err != nil {
				break
			}
			if relative {
				b += y
			}
			y = b
			p.Line(toFixedP(x, y))
		case 'C', 'c':
			a, b := abs(s.num(), s.num())
			c, d := abs(s.num(), s.num())
			e, f := abs(s.num(), s.num())
			if s.err != nil {
				break
			}
			p.CubeBezier(toFixedP(a, b), toFixedP(c, d), toFixedP(e, f))
			cpx, cpy, x, y = c, d, e, f
		case 'S', 's':
			c, d := abs(s.num(), s.num())
			e, f := abs(s.num(), s.num())
			if s.err != nil {
				break
			}
			a, b := x, y
			if isOneOf(prevCmd, "CcSs") {
				a, b = 2*x-cpx, 2*y-cpy
			}
			p.CubeBezier(toFixedP(a, b), toFixedP(c, d), toFixedP(e, f))
			cpx, cpy, x, y = c, d, e, f
		case 'Q', 'q':
			a, b := abs(s.num(), s.num())
			c, d := abs(s.num(), s.num())
			if s.err != nil {
				break
			}
			p.QuadBezier(toFixedP(a, b), toFixedP(c, d))
			cpx, cpy, x, y = a, b, c, d
		case 'T', 't':
			c, d := abs(s.num(), s.num())
			if s.err != nil {
				break
			}
			a, b := x, y
			if isOneOf(prevCmd, "QqTt") {
				a, b = 2*x-cpx, 2*y-cpy
			}
			p.QuadBezier(toFixedP(a, b), toFixedP(c, d))
			cpx, cpy, x, y = a, b, c, d
		case 'A', 'a':
			rx, ry, rot := s.num(), s.num(), s.num()
			large, sweep := s.flag(), s.flag()
			ex, ey := abs(s.num(), s.num())
			if s.err != nil {
				break
			}
			p.AddArc(x, y, rx, ry, rot, large, sweep, ex, ey)
			x, y = ex, ey
		}
		if s.err != nil {
			return p, s.err
		}
		prevCmd = cmd
	}
	return p, nil
}

func isCommand(c byte) bool { return isOneOf(c, "MmZzLlHhVvCcSsQqTtAa") }

func isOneOf(c byte, set string) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}
