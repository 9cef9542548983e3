// seehuhn.de/go/mask - raster mask editing
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Sweep fills the area covered by a brush tip of the given width moved
// along the polyline through points.
//
// The tip selects the brush form:
//   - graphics.LineCapRound: a disk of diameter width,
//   - graphics.LineCapSquare: an axis-aligned square of side width,
//   - graphics.LineCapButt: no tip; only the segment bodies are painted,
//     as for a butt-capped stroke.
//
// A single point paints one copy of the tip. The result is the union of all
// tip positions, built from one piece per point and one per segment, which
// are filled together using the nonzero rule.
// The slice passed to emit is valid only during the call.
func (r *Rasteriser) Sweep(points []vec.Vec2, width float64, tip graphics.LineCapStyle, emit func(y, xMin int, coverage []float32)) {
	r.beginShape()
	if len(points) == 0 || !(width > 0) {
		return
	}
	d := width / 2

	prev := points[0]
	r.addTip(prev, d, tip)
	for _, p := range points[1:] {
		if p.Sub(prev).Length() < zeroLengthThreshold {
			continue
		}
		r.addBody(prev, p, d, tip)
		r.addTip(p, d, tip)
		prev = p
	}

	r.fillEdges(emit)
}

// addTip adds one copy of the brush tip centred at c.
func (r *Rasteriser) addTip(c vec.Vec2, d float64, tip graphics.LineCapStyle) {
	switch tip {
	case graphics.LineCapRound:
		r.addDisk(c, d)
	case graphics.LineCapSquare:
		r.poly = squareCorners(r.poly[:0], c, d)
		r.addOriented(r.poly)
	}
}

// addBody adds the area swept by the tip between two consecutive points,
// excluding the tips at the end points.
func (r *Rasteriser) addBody(a, b vec.Vec2, d float64, tip graphics.LineCapStyle) {
	if tip == graphics.LineCapSquare {
		// The square moved along a-b covers the convex hull of the two
		// end positions.
		pts := squareCorners(r.poly[:0], a, d)
		pts = squareCorners(pts, b, d)
		r.poly = convexHull(pts)
		r.addOriented(r.poly)
		return
	}

	t := b.Sub(a)
	t = t.Mul(1 / t.Length())
	n := vec.Vec2{X: -t.Y * d, Y: t.X * d}
	r.poly = append(r.poly[:0], a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
	r.addOriented(r.poly)
}

// addDisk adds a polygonal approximation of the disk with centre c and
// radius d. The polygon deviates from the circle by at most Flatness and
// has the same area as the disk.
func (r *Rasteriser) addDisk(c vec.Vec2, d float64) {
	n := minDiskSegments
	if d > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/d)
		n = max(n, int(math.Ceil(2*math.Pi/step)))
	}
	alpha := 2 * math.Pi / float64(n)
	rr := d * math.Sqrt(alpha/math.Sin(alpha))

	r.poly = r.poly[:0]
	for i := range n {
		phi := alpha * float64(i)
		r.poly = append(r.poly, vec.Vec2{
			X: c.X + rr*math.Cos(phi),
			Y: c.Y + rr*math.Sin(phi),
		})
	}
	r.addOriented(r.poly)
}

// squareCorners appends the corners of the axis-aligned square with centre
// c and half side d to buf.
func squareCorners(buf []vec.Vec2, c vec.Vec2, d float64) []vec.Vec2 {
	return append(buf,
		vec.Vec2{X: c.X - d, Y: c.Y - d},
		vec.Vec2{X: c.X + d, Y: c.Y - d},
		vec.Vec2{X: c.X + d, Y: c.Y + d},
		vec.Vec2{X: c.X - d, Y: c.Y + d},
	)
}

// convexHull returns the convex hull of pts, using the monotone chain
// algorithm. The points are reordered in place and the hull is returned
// in a prefix of the same buffer.
func convexHull(pts []vec.Vec2) []vec.Vec2 {
	if len(pts) < 3 {
		return pts
	}
	slices.SortFunc(pts, func(a, b vec.Vec2) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})

	cross := func(o, a, b vec.Vec2) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]vec.Vec2, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]

	return append(pts[:0], hull...)
}

// minDiskSegments is the smallest number of polygon edges used for a disk.
const minDiskSegments = 12
