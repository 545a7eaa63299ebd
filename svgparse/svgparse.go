// Translates SVG documents into MVG directive streams.
// The translation is event driven: a Builder receives start and
// end elements, character data and comments (see Convert for
// a ready to use driver based on encoding/xml), and writes
// one directive per line.
package svgparse

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/net/html/charset"
)

var errNoElement = errors.New("invalid svg: no element found")

// Options configures a conversion.
type Options struct {
	// ErrorMode applies to unknown elements and malformed transforms.
	ErrorMode mvg.ErrorMode `toml:"error_mode"`
	// MaxDepth limits the element nesting (0 means no limit).
	MaxDepth int `toml:"max_depth"`
	// PointSize is the initial font size, used by em and ex units.
	PointSize float64 `toml:"point_size"`

	Logger logr.Logger `toml:"-"`
}

// DefaultOptions ignores unknown elements, limits the nesting
// to mvg.DefaultMaxDepth and uses a 12pt font.
func DefaultOptions() Options {
	return Options{
		ErrorMode: mvg.IgnoreErrorMode,
		MaxDepth:  mvg.DefaultMaxDepth,
		PointSize: 12,
		Logger:    mvg.DefaultLogger(),
	}
}

// LoadOptions reads options from a TOML file. Missing
// fields keep their default value.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err = toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("invalid options file %s: %w", path, err)
	}
	return opts, nil
}

// Convert reads the SVG document from r and writes the
// directives to w. On failure, the directives already written
// are not reverted.
func Convert(r io.Reader, w io.Writer, opts Options) error {
	_, err := convert(r, w, opts)
	return err
}

func convert(r io.Reader, w io.Writer, opts Options) (*Builder, error) {
	b := NewBuilder(w, opts)
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			if seenTag && b.Depth() > 0 && isUnexpectedEOF(err) {
				// unclosed elements
				return b, b.Close()
			}
			b.enc.Flush()
			return b, fmt.Errorf("invalid svg xml: %w", err)
		}
		b.line, _ = decoder.InputPos()
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			err = b.StartElement(se.Name.Local, se.Attr)
		case xml.EndElement:
			err = b.EndElement(se.Name.Local)
		case xml.CharData:
			b.CharData(se)
		case xml.Comment:
			b.Comment(se)
		case xml.ProcInst:
			if se.Target == "xml" {
				b.SetEncoding(procInstParam(string(se.Inst), "encoding"))
			}
		}
		if err != nil {
			b.enc.Flush()
			return b, err
		}
	}
	if !seenTag {
		return b, errNoElement
	}
	return b, b.Close()
}

func isUnexpectedEOF(err error) bool {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return syntax.Msg == "unexpected EOF"
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// procInstParam returns the value of the pseudo attribute `name`
// of a processing instruction, such as encoding="UTF-8".
func procInstParam(inst, name string) string {
	idx := strings.Index(inst, name+"=")
	if idx < 0 {
		return ""
	}
	v := inst[idx+len(name)+1:]
	if v == "" || (v[0] != '"' && v[0] != '\'') {
		return ""
	}
	end := strings.IndexByte(v[1:], v[0])
	if end < 0 {
		return ""
	}
	return v[1 : end+1]
}

// ConvertFile is the same as Convert, reading from the named file.
func ConvertFile(name string, w io.Writer, opts Options) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return Convert(f, w, opts)
}

// ConvertString converts an in-memory SVG document.
func ConvertString(svg string, opts Options) (string, error) {
	var out strings.Builder
	err := Convert(strings.NewReader(svg), &out, opts)
	return out.String(), err
}
