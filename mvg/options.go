package mvg

import (
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// ErrorMode determines how unsupported input is handled.
type ErrorMode uint8

const (
	// IgnoreErrorMode silently skips unsupported input.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs unsupported input, and continues.
	WarnErrorMode
	// StrictErrorMode stops with an error on unsupported input.
	StrictErrorMode
)

func (e ErrorMode) String() string {
	switch e {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return "<unknown ErrorMode>"
	}
}

// UnmarshalText accepts "ignore", "warn" and "strict".
func (e *ErrorMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ignore", "":
		*e = IgnoreErrorMode
	case "warn":
		*e = WarnErrorMode
	case "strict":
		*e = StrictErrorMode
	default:
		return fmt.Errorf("invalid error mode %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (e ErrorMode) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// DefaultMaxDepth is the default limit on nested scopes.
const DefaultMaxDepth = 256

// Options configures the interpretation of a stream.
type Options struct {
	ErrorMode ErrorMode `toml:"error_mode"`
	// MaxDepth limits the number of nested scopes (0 means no limit).
	MaxDepth int `toml:"max_depth"`
	// MaxPrimitivePoints limits the number of points of one
	// primitive (0 means no limit).
	MaxPrimitivePoints int `toml:"max_primitive_points"`

	// Logger receives the warnings in WarnErrorMode.
	Logger logr.Logger `toml:"-"`
}

// DefaultOptions returns options ignoring unknown keywords,
// with a depth limit and logging to stderr.
func DefaultOptions() Options {
	return Options{
		ErrorMode: IgnoreErrorMode,
		MaxDepth:  DefaultMaxDepth,
		Logger:    DefaultLogger(),
	}
}

// DefaultLogger returns a logger writing to stderr.
func DefaultLogger() logr.Logger {
	return stdr.New(log.New(os.Stderr, "svgmvg: ", log.LstdFlags))
}

// Unsupported applies the error mode to a piece of input which
// is not handled, returning a non nil error only in StrictErrorMode.
func Unsupported(mode ErrorMode, logger logr.Logger, msg, keyword string, line int) error {
	switch mode {
	case StrictErrorMode:
		return NewError(UnsupportedError, keyword, line, ErrUnknownKeyword)
	case WarnErrorMode:
		if logger.GetSink() != nil {
			logger.Info(msg, "keyword", keyword, "line", line)
		}
	}
	return nil
}
