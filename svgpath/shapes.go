package svgpath

import (
	"math"

	"github.com/benoitkugler/svgmvg/mvg"
	"golang.org/x/image/math/fixed"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// arcSegments returns the number of cubics needed to span deltaEta radians,
// bounded for two full turns.
func arcSegments(deltaEta float64) int {
	const maxSegs = 4 * math.Pi / maxDx
	n := math.Abs(deltaEta) / maxDx
	if !(n < maxSegs) { // also catches NaN
		n = maxSegs
	}
	return int(n) + 1
}

func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// kappa is the distance of the control points of a
// quarter of a unit circle approximated by a cubic.
const kappa = 0.5522847498307936

// toFixedP converts two floats to a fixed point.
func toFixedP(x, y float64) (p fixed.Point26_6) {
	p.X = fixed.Int26_6(x * 64)
	p.Y = fixed.Int26_6(y * 64)
	return
}

// AddRect adds a closed rectangle.
func (p *Path) AddRect(minX, minY, maxX, maxY float64) {
	p.Start(toFixedP(minX, minY))
	p.Line(toFixedP(maxX, minY))
	p.Line(toFixedP(maxX, maxY))
	p.Line(toFixedP(minX, maxY))
	p.Stop(true)
}

// AddRoundRect adds a rectangle with rounded corners of radius
// rx in the x axis and ry in the y axis. The radii are clamped
// to half the size of the rectangle.
func (p *Path) AddRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.AddRect(minX, minY, maxX, maxY)
		return
	}
	if w := maxX - minX; w < rx*2 {
		rx = w / 2
	}
	if h := maxY - minY; h < ry*2 {
		ry = h / 2
	}
	kx, ky := kappa*rx, kappa*ry

	p.Start(toFixedP(minX+rx, minY))
	p.Line(toFixedP(maxX-rx, minY))
	p.CubeBezier(toFixedP(maxX-rx+kx, minY), toFixedP(maxX, minY+ry-ky), toFixedP(maxX, minY+ry))
	p.Line(toFixedP(maxX, maxY-ry))
	p.CubeBezier(toFixedP(maxX, maxY-ry+ky), toFixedP(maxX-rx+kx, maxY), toFixedP(maxX-rx, maxY))
	p.Line(toFixedP(minX+rx, maxY))
	p.CubeBezier(toFixedP(minX+rx-kx, maxY), toFixedP(minX, maxY-ry+ky), toFixedP(minX, maxY-ry))
	p.Line(toFixedP(minX, minY+ry))
	p.CubeBezier(toFixedP(minX, minY+ry-ky), toFixedP(minX+rx-kx, minY), toFixedP(minX+rx, minY))
	p.Stop(true)
}

// AddEllipse adds a closed, axis aligned ellipse.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	p.AddEllipseArc(cx, cy, rx, ry, 0, 360)
	p.Stop(true)
}

// AddEllipseArc starts a new subpath following the axis aligned ellipse
// from angle `start` to `end` (in degrees, clockwise in screen space).
// A negative span from `start` to `end` is wrapped in [0, 360),
// and spans larger than a full turn are reduced to one turn.
// Non finite arguments add nothing.
func (p *Path) AddEllipseArc(cx, cy, rx, ry, start, end float64) {
	if !isFinite(cx, cy, rx, ry, start, end) {
		return
	}
	span := end - start
	if span < 0 {
		span = math.Mod(span, 360) + 360
		if span >= 360 {
			span = 0
		}
	}
	if span > 360 || math.IsNaN(span) { // overflowing spans
		span = 360
	}
	etaStart := math.Mod(start, 360) * math.Pi / 180
	deltaEta := span * math.Pi / 180

	segs := arcSegments(deltaEta)
	dEta := deltaEta / float64(segs)
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3

	lx, ly := ellipsePointAt(rx, ry, 0, 1, etaStart, cx, cy)
	ldx, ldy := ellipsePrime(rx, ry, 0, 1, etaStart, cx, cy)
	p.Start(toFixedP(lx, ly))
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		px, py := ellipsePointAt(rx, ry, 0, 1, eta, cx, cy)
		dx, dy := ellipsePrime(rx, ry, 0, 1, eta, cx, cy)
		p.CubeBezier(toFixedP(lx+alpha*ldx, ly+alpha*ldy),
			toFixedP(px-alpha*dx, py-alpha*dy), toFixedP(px, py))
		lx, ly, ldx, ldy = px, py, dx, dy
	}
}

// AddArc adds the elliptical arc of the SVG path syntax,
// from (px, py) to (x, y), with radii rx, ry and
// the x axis rotated by rotX degrees.
// Degenerate radii produce a straight line.
func (p *Path) AddArc(px, py, rx, ry, rotX float64, largeArc, sweep bool, x, y float64) {
	if px == x && py == y {
		return
	}
	if !isFinite(px, py, x, y) {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if !isFinite(rx, ry, rotX) {
		p.Line(toFixedP(x, y))
		return
	}
	if rx == 0 || ry == 0 {
		p.Line(toFixedP(x, y))
		return
	}
	cx, cy := findEllipseCenter(&rx, &ry, rotX*math.Pi/180, px, py, x, y, sweep, !largeArc)
	if !isFinite(cx, cy, rx, ry) {
		p.Line(toFixedP(x, y))
		return
	}
	p.addArc(arcParams{rx: rx, ry: ry, rotX: rotX, largeArc: largeArc, sweep: sweep, x: x, y: y}, cx, cy, px, py)
}

// AddPolyline adds the segments joining the points,
// closing the loop if required.
func (p *Path) AddPolyline(points []mvg.Point, closeLoop bool) {
	if len(points) == 0 {
		return
	}
	p.Start(toFixedP(points[0].X, points[0].Y))
	for _, pt := range points[1:] {
		p.Line(toFixedP(pt.X, pt.Y))
	}
	p.Stop(closeLoop)
}

// AddBezier adds the Bezier curve whose control points are given.
// Quadratic and cubic curves are added as such, higher degrees
// are flattened.
func (p *Path) AddBezier(points []mvg.Point) {
	if len(points) == 0 {
		return
	}
	fp := func(i int) fixed.Point26_6 { return toFixedP(points[i].X, points[i].Y) }
	p.Start(fp(0))
	switch len(points) {
	case 1:
	case 2:
		p.Line(fp(1))
	case 3:
		p.QuadBezier(fp(1), fp(2))
	case 4:
		p.CubeBezier(fp(1), fp(2), fp(3))
	default:
		steps := 16 * len(points)
		for i := 1; i <= steps; i++ {
			x, y := bezierAt(points, float64(i)/float64(steps))
			p.Line(toFixedP(x, y))
		}
	}
}

// bezierAt evaluates the curve at t with De Casteljau's algorithm.
func bezierAt(points []mvg.Point, t float64) (x, y float64) {
	tmp := append([]mvg.Point(nil), points...)
	for n := len(tmp) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			tmp[i].X += t * (tmp[i+1].X - tmp[i].X)
			tmp[i].Y += t * (tmp[i+1].Y - tmp[i].Y)
		}
	}
	return tmp[0].X, tmp[0].Y
}

type arcParams struct {
	rx, ry, rotX    float64 // rotX in degrees
	largeArc, sweep bool
	x, y            float64 // end point
}

// addArc approximates the arc with cubics, from (px, py) around (cx, cy)
func (p *Path) addArc(arc arcParams, cx, cy, px, py float64) (lx, ly float64) {
	rotX := arc.rotX * math.Pi / 180 // Convert degress to radians
	startAngle := math.Atan2(py-cy, px-cx) - rotX
	endAngle := math.Atan2(arc.y-cy, arc.x-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// Approximate ellipse using cubic bezier splines
	etaStart := math.Atan2(math.Sin(startAngle)/arc.ry, math.Cos(startAngle)/arc.rx)
	etaEnd := math.Atan2(math.Sin(endAngle)/arc.ry, math.Cos(endAngle)/arc.rx)
	deltaEta := etaEnd - etaStart
	if arcBig != arc.largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// This check might be needed if the center point of the ellipse is
	// at the midpoint of the start and end lines.
	if deltaEta < 0 && arc.sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !arc.sweep {
		deltaEta -= math.Pi * 2
	}

	// Round up to determine number of cubic splines to approximate bezier curve
	segs := arcSegments(deltaEta)
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly = px, py
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(arc.rx, arc.ry, sinTheta, cosTheta, etaStart, cx, cy)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var px, py float64
		if i == segs {
			px, py = arc.x, arc.y // Just makes the end point exact; no roundoff error
		} else {
			px, py = ellipsePointAt(arc.rx, arc.ry, sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(arc.rx, arc.ry, sinTheta, cosTheta, eta, cx, cy)
		p.CubeBezier(toFixedP(lx+alpha*ldx, ly+alpha*ldy),
			toFixedP(px-alpha*dx, py-alpha*dy), toFixedP(px, py))
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return lx, ly
}

// ellipsePrime gives tangent vectors for parameterized ellipse; a, b, radii, eta parameter, center cx, cy
func ellipsePrime(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives points for parameterized ellipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the Ellipse if it exists. If it does not exist,
// the radius values will be increased minimally for a solution to be possible
// while preserving the ra to rb ratio.  ra and rb arguments are pointers that can be
// checked after the call to see if the values changed.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	// Rotate ellipse x-axis to coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale X dimension so that ra = rb
	nx *= *rb / *ra // Now the ellipse is a circle radius rb; therefore foci and center coincide

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// Requested ellipse does not exist; scale ra, rb to fit.
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	if sweep == smallArc {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse scale
	cx *= *ra / *rb
	//Reverse rotate and translate back to original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
