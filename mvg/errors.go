package mvg

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalanced is reported for a pop without matching push,
	// a pop of the wrong kind, or scopes left open at the end of the stream.
	ErrUnbalanced = errors.New("unbalanced push/pop")
	// ErrArity is reported when a primitive has the wrong number of points.
	ErrArity = errors.New("invalid number of points")
	// ErrMaxDepth is reported when the nesting exceeds the configured limit.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
	// ErrResourceLimit is reported when a primitive exceeds the configured size.
	ErrResourceLimit = errors.New("resource limit exceeded")
	// ErrUnknownKeyword is only reported in StrictErrorMode.
	ErrUnknownKeyword = errors.New("unknown keyword")
)

// ErrorKind classifies fatal errors.
type ErrorKind uint8

const (
	// StructuralError covers unbalanced scopes, arity mismatches
	// and depth overflows: the stream is corrupted.
	StructuralError ErrorKind = iota + 1
	// ResourceError signals that a configured limit has been reached.
	ResourceError
	// UnsupportedError signals unknown keywords or elements in StrictErrorMode.
	UnsupportedError
)

func (k ErrorKind) String() string {
	switch k {
	case StructuralError:
		return "structural error"
	case ResourceError:
		return "resource error"
	case UnsupportedError:
		return "unsupported"
	default:
		return "<unknown ErrorKind>"
	}
}

// Error is the fatal error returned when processing a stream.
// It wraps one of the sentinel errors of this package.
type Error struct {
	Kind    ErrorKind
	Keyword string // directive or element being processed
	Line    int    // 1-based line in the stream, 0 if unknown
	Err     error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d (%s): %s", e.Kind, e.Line, e.Keyword, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Keyword, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an error of the given kind.
func NewError(kind ErrorKind, keyword string, line int, err error) *Error {
	return &Error{Kind: kind, Keyword: keyword, Line: line, Err: err}
}
