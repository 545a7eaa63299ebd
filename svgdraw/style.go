package svgdraw

import (
	"github.com/benoitkugler/svgmvg/svgmatrix"
	"github.com/benoitkugler/svgmvg/svgpath"
	"golang.org/x/image/math/fixed"
)

// PathStyle holds the state of a graphic context.
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool

	Join                    JoinOptions
	Dash                    DashOptions
	FillerColor, LinerColor svgpath.Pattern // either PlainColor or Gradient, nil to disable

	Transform svgmatrix.Matrix2D // current transform
}

// DefaultStyle sets the default PathStyle to fill black, winding rule,
// full opacity, no stroke, ButtCap line end and Miter line connect.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         1.0,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit:   fToFixed(4.),
		LineJoin:     Miter,
		TrailLineCap: ButtCap,
		LineGap:      FlatGap,
	},
	FillerColor: svgpath.NewPlainColor(0x00, 0x00, 0x00, 0xff),
	Transform:   svgmatrix.Identity,
}

// DrawPath draws the path into the driver `d`, filling then
// stroking it according to `style`, whose transform is applied.
func DrawPath(d Driver, path svgpath.Path, style PathStyle, opacity float64) {
	filler, stroker := d.SetupDrawers(style.FillerColor != nil, style.LinerColor != nil)
	if filler != nil { // nil color disable filling
		filler.Clear()
		filler.SetWinding(style.UseNonZeroWinding)

		path.AddTo(filler, style.Transform)
		filler.Stop(false)

		filler.SetColor(style.FillerColor, style.FillOpacity*opacity)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil color disable lining
		stroker.Clear()

		lineGap := style.Join.LineGap
		if lineGap == NilGap {
			lineGap = DefaultStyle.Join.LineGap
		}
		lineCap := style.Join.TrailLineCap
		if lineCap == NilCap {
			lineCap = DefaultStyle.Join.TrailLineCap
		}
		leadLineCap := lineCap
		if style.Join.LeadLineCap != NilCap {
			leadLineCap = style.Join.LeadLineCap
		}
		// the width is given in user space
		width := style.LineWidth * style.Transform.Expansion()
		dash := style.Dash
		if len(dash.Dash) > 0 {
			scale := style.Transform.Expansion()
			scaled := make([]float64, len(dash.Dash))
			for i, v := range dash.Dash {
				scaled[i] = v * scale
			}
			dash = DashOptions{Dash: scaled, DashOffset: dash.DashOffset * scale}
		}
		stroker.SetStrokeOptions(StrokeOptions{
			LineWidth: fixed.Int26_6(width * 64),
			Join: JoinOptions{
				MiterLimit:   style.Join.MiterLimit,
				LineJoin:     style.Join.LineJoin,
				LeadLineCap:  leadLineCap,
				TrailLineCap: lineCap,
				LineGap:      lineGap,
			},
			Dash: dash,
		})

		path.AddTo(stroker, style.Transform)
		stroker.Stop(false)

		stroker.SetColor(style.LinerColor, style.LineOpacity*opacity)
		stroker.Draw()
	}
}
