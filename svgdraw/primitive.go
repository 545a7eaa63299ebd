package svgdraw

import (
	"errors"
	"math"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgpath"
)

// ErrNotRendered is returned by PrimitivePath for the primitives
// which have no outline: text, image, color and alpha.
var ErrNotRendered = errors.New("primitive has no outline")

// PrimitivePath reduces a primitive to its outline, in user space.
// For a path primitive with invalid data, the path read until
// the error is returned as well as the error.
func PrimitivePath(p mvg.Primitive) (svgpath.Path, error) {
	var out svgpath.Path
	pts := p.Points
	switch p.Kind {
	case mvg.PointPrimitive:
		out.AddRect(pts[0].X, pts[0].Y, pts[0].X+1, pts[0].Y+1)
	case mvg.LinePrimitive:
		out.AddPolyline(pts[:2], false)
	case mvg.RectanglePrimitive:
		out.AddRect(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
	case mvg.RoundRectanglePrimitive:
		out.AddRoundRect(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
	case mvg.ArcPrimitive:
		// bounding box and angles
		cx, cy := (pts[0].X+pts[1].X)/2, (pts[0].Y+pts[1].Y)/2
		rx, ry := math.Abs(pts[1].X-pts[0].X)/2, math.Abs(pts[1].Y-pts[0].Y)/2
		out.AddEllipseArc(cx, cy, rx, ry, pts[2].X, pts[2].Y)
	case mvg.EllipsePrimitive:
		if len(pts) == 3 && math.Abs(pts[2].Y-pts[2].X) < 360 {
			out.AddEllipseArc(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		} else {
			out.AddEllipse(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		}
	case mvg.CirclePrimitive:
		r := math.Hypot(pts[1].X-pts[0].X, pts[1].Y-pts[0].Y)
		out.AddEllipse(pts[0].X, pts[0].Y, r, r)
	case mvg.PolylinePrimitive:
		out.AddPolyline(pts, false)
	case mvg.PolygonPrimitive:
		out.AddPolyline(pts, true)
	case mvg.BezierPrimitive:
		out.AddBezier(pts)
	case mvg.PathPrimitive:
		return svgpath.ParsePathData(p.Text)
	default:
		return nil, ErrNotRendered
	}
	return out, nil
}
