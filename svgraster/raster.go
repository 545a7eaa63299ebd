// Implements a raster backend to render MVG streams
// and SVG images, by wrapping rasterx.
package svgraster

import (
	"errors"
	"image"
	"io"
	"math"
	"strings"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgdraw"
	"github.com/benoitkugler/svgmvg/svgparse"
	"github.com/benoitkugler/svgmvg/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ svgdraw.Driver = (*Renderer)(nil) // assert interface conformance

var errNoSize = errors.New("image size is unknown: no viewbox and no explicit size")

// Options configures the rasterization.
type Options struct {
	// Width and Height are the size of the image in pixels. When zero,
	// the size of the first viewbox is used.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	Parse svgparse.Options `toml:"parse"`
	MVG   mvg.Options      `toml:"mvg"`
}

// DefaultOptions uses the default parser and interpreter options.
func DefaultOptions() Options {
	return Options{Parse: svgparse.DefaultOptions(), MVG: mvg.DefaultOptions()}
}

type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
}

// NewRenderer returns a renderer with default values.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

// SetupDrawers implements svgdraw.Driver.
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgdraw.Filler, s svgdraw.Stroker) {
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

// viewboxSize returns the size of the first viewbox of the stream.
func viewboxSize(mvgText string, opts mvg.Options) (w, h int, err error) {
	var rec mvg.Recorder
	if err := mvg.InterpretString(mvgText, &rec, opts); err != nil {
		return 0, 0, err
	}
	if len(rec.Viewboxes) == 0 {
		return 0, 0, errNoSize
	}
	vb := rec.Viewboxes[0]
	return int(math.Ceil(vb.W)), int(math.Ceil(vb.H)), nil
}

// RasterMVG paints the MVG stream into a new image,
// using a ScannerGV. On failure, the image painted so far
// is returned with the error.
func RasterMVG(mvgText string, opts Options) (*image.RGBA, error) {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		var err error
		w, h, err = viewboxSize(mvgText, opts.MVG)
		if err != nil {
			return nil, err
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	renderer := NewRenderer(w, h, scanner)
	_, err := svgdraw.Paint(renderer, mvgText, opts.MVG)
	return img, err
}

// RasterSVG converts the SVG document to MVG and paints it.
func RasterSVG(r io.Reader, opts Options) (*image.RGBA, error) {
	var directives strings.Builder
	if err := svgparse.Convert(r, &directives, opts.Parse); err != nil {
		return nil, err
	}
	return RasterMVG(directives.String(), opts)
}

// resolve gradient color
func setColorFromPattern(color svgpath.Pattern, opacity float64, scanner rasterx.Scanner) {
	switch fillerColor := color.(type) {
	case svgpath.PlainColor:
		scanner.SetColor(rasterx.ApplyOpacity(fillerColor, opacity))
	case svgpath.Gradient:
		if fillerColor.Units == svgpath.ObjectBoundingBox && fillerColor.Bounds.W == 0 && fillerColor.Bounds.H == 0 {
			fRect := scanner.GetPathExtent()
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			fillerColor.Bounds.X, fillerColor.Bounds.Y = mnx, mny
			fillerColor.Bounds.W, fillerColor.Bounds.H = mxx-mnx, mxy-mny
		}
		rasterxGradient := toRasterxGradient(fillerColor)
		scanner.SetColor(rasterxGradient.GetColorFunction(opacity))
	}
}

func toRasterxGradient(grad svgpath.Gradient) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case svgpath.Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
	case svgpath.Radial:
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4] // in rasterx fr is ignored
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i, s := range grad.Stops {
		stops[i] = rasterx.GradStop{StopColor: s.StopColor, Offset: s.Offset, Opacity: s.Opacity}
	}
	m := grad.Matrix
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Bounds:   struct{ X, Y, W, H float64 }{grad.Bounds.X, grad.Bounds.Y, grad.Bounds.W, grad.Bounds.H},
		Matrix:   rasterx.Matrix2D{A: m.A, B: m.B, C: m.C, D: m.D, E: m.E, F: m.F},
		Spread:   rasterx.SpreadMethod(grad.Spread),
		Units:    rasterx.GradientUnits(grad.Units),
		IsRadial: isRadial,
	}
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgdraw.Round:     rasterx.Round,
		svgdraw.Bevel:     rasterx.Bevel,
		svgdraw.Miter:     rasterx.Miter,
		svgdraw.MiterClip: rasterx.MiterClip,
		svgdraw.Arc:       rasterx.Arc,
		svgdraw.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgdraw.NilCap:       nil,
		svgdraw.ButtCap:      rasterx.ButtCap,
		svgdraw.SquareCap:    rasterx.SquareCap,
		svgdraw.RoundCap:     rasterx.RoundCap,
		svgdraw.CubicCap:     rasterx.CubicCap,
		svgdraw.QuadraticCap: rasterx.QuadraticCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		svgdraw.NilGap:       nil,
		svgdraw.FlatGap:      rasterx.FlatGap,
		svgdraw.RoundGap:     rasterx.RoundGap,
		svgdraw.CubicGap:     rasterx.CubicGap,
		svgdraw.QuadraticGap: rasterx.QuadraticGap,
	}
)

// filler adapts a rasterx.Filler to svgdraw.Filler
type filler struct {
	f *rasterx.Filler
}

func (f filler) Clear() { f.f.Clear() }
func (f filler) Start(a fixed.Point26_6) { f.f.Start(a) }
func (f filler) Line(b fixed.Point26_6) { f.f.Line(b) }
func (f filler) QuadBezier(b, c fixed.Point26_6) { f.f.QuadBezier(b, c) }
func (f filler) CubeBezier(b, c, d fixed.Point26_6) { f.f.CubeBezier(b, c, d) }
func (f filler) Stop(closeLoop bool) { f.f.Stop(closeLoop) }
func (f filler) Draw() { f.f.Draw() }
func (f filler) SetWinding(useNonZeroWinding bool) { f.f.SetWinding(useNonZeroWinding) }
func (f filler) SetColor(c svgpath.Pattern, o float64) { setColorFromPattern(c, o, f.f.Scanner) }

// stroker adapts a rasterx.Dasher to svgdraw.Stroker
type stroker struct {
	d *rasterx.Dasher
}

func (s stroker) Clear() { s.d.Clear() }
func (s stroker) Start(a fixed.Point26_6) { s.d.Start(a) }
func (s stroker) Line(b fixed.Point26_6) { s.d.Line(b) }
func (s stroker) QuadBezier(b, c fixed.Point26_6) { s.d.QuadBezier(b, c) }
func (s stroker) CubeBezier(b, c, d fixed.Point26_6) { s.d.CubeBezier(b, c, d) }
func (s stroker) Stop(closeLoop bool) { s.d.Stop(closeLoop) }
func (s stroker) Draw() { s.d.Draw() }
func (s stroker) SetColor(c svgpath.Pattern, o float64) { setColorFromPattern(c, o, s.d.Scanner) }

func (s stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.d.SetStroke(
		options.LineWidth, options.Join.MiterLimit, capToFunc[options.Join.LeadLineCap],
		capToFunc[options.Join.TrailLineCap], gapToFunc[options.Join.LineGap],
		joinToJoin[options.Join.LineJoin], options.Dash.Dash, options.Dash.DashOffset,
	)
}
