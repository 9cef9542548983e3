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

// Package raster computes pixel coverage for polygons and swept brush
// strokes.
//
// All geometry is given in image coordinates: the pixel (x, y) covers the
// unit square [x, x+1) × [y, y+1) and y grows downwards. Coverage is
// delivered row by row through an emit callback, as a fraction in [0, 1]
// of each pixel's area inside the shape.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// edge is a non-horizontal line segment of the shape outline.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Rasteriser converts outlines into pixel coverage values. All shapes are
// filled using the nonzero winding rule, so that overlapping pieces of the
// same orientation combine into their union.
//
// Create one instance and reuse it for many shapes. Internal buffers grow
// as needed but never shrink.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// Clip bounds the output to this rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness controls the accuracy of circle approximation, in pixels.
	// Must be positive.
	Flatness float64

	// smallPathThreshold is the maximum bounding box area (in pixels) for
	// which 2D accumulation buffers are used. Larger shapes use an active
	// edge list.
	smallPathThreshold int

	cover       []float32 // cover change per pixel; reused as output
	area        []float32 // area within pixel
	edges       []edge
	activeIdx   []int
	rowHasEdges []bool
	poly        []vec.Vec2 // scratch buffer for one sub-polygon

	bboxEmpty bool
	bboxXMin  float64
	bboxXMax  float64
	bboxYMin  float64
	bboxYMax  float64
}

// NewRasteriser returns a Rasteriser with the given clip rectangle.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		Clip:               clip,
		Flatness:           defaultFlatness,
		smallPathThreshold: smallPathThreshold,
	}
}

// Reset prepares the Rasteriser for a new clip rectangle, keeping the
// capacity of the internal buffers.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.beginShape()
}

// FillPolygon fills the closed polygon with the given vertices.
// Polygons with fewer than three vertices cover no pixels.
// The slice passed to emit is valid only during the call.
func (r *Rasteriser) FillPolygon(vertices []vec.Vec2, emit func(y, xMin int, coverage []float32)) {
	r.beginShape()
	if len(vertices) < 3 {
		return
	}
	r.addClosed(vertices)
	r.fillEdges(emit)
}

// beginShape clears the edge list and the bounding box.
func (r *Rasteriser) beginShape() {
	r.edges = r.edges[:0]
	r.bboxEmpty = true
}

// addClosed adds the edges of a closed polygon.
func (r *Rasteriser) addClosed(vertices []vec.Vec2) {
	n := len(vertices)
	for i := range n {
		r.addEdge(vertices[i], vertices[(i+1)%n])
	}
}

// addOriented adds a closed polygon with positive orientation, reversing
// the vertex order if needed. Using one orientation for all pieces makes
// the nonzero rule compute their union.
func (r *Rasteriser) addOriented(vertices []vec.Vec2) {
	if len(vertices) < 3 {
		return
	}
	if signedArea(vertices) >= 0 {
		r.addClosed(vertices)
		return
	}
	n := len(vertices)
	for i := n - 1; i >= 0; i-- {
		r.addEdge(vertices[i], vertices[(i+n-1)%n])
	}
}

// signedArea returns twice the signed area of a closed polygon.
func signedArea(vertices []vec.Vec2) float64 {
	var sum float64
	n := len(vertices)
	for i := range n {
		a, b := vertices[i], vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

// addEdge appends a line segment to the edge list.
func (r *Rasteriser) addEdge(p0, p1 vec.Vec2) {
	dy := p1.Y - p0.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}

	r.edges = append(r.edges, edge{
		x0: p0.X, y0: p0.Y,
		x1: p1.X, y1: p1.Y,
		dxdy: (p1.X - p0.X) / dy,
	})

	if r.bboxEmpty {
		r.bboxXMin, r.bboxXMax = min(p0.X, p1.X), max(p0.X, p1.X)
		r.bboxYMin, r.bboxYMax = min(p0.Y, p1.Y), max(p0.Y, p1.Y)
		r.bboxEmpty = false
		return
	}
	r.bboxXMin = min(r.bboxXMin, p0.X, p1.X)
	r.bboxXMax = max(r.bboxXMax, p0.X, p1.X)
	r.bboxYMin = min(r.bboxYMin, p0.Y, p1.Y)
	r.bboxYMax = max(r.bboxYMax, p0.Y, p1.Y)
}

// fillEdges rasterises the current edge list.
func (r *Rasteriser) fillEdges(emit func(y, xMin int, coverage []float32)) {
	if len(r.edges) == 0 {
		return
	}

	xMin := max(int(math.Floor(r.bboxXMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.bboxXMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.bboxYMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.bboxYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	if (xMax-xMin)*(yMax-yMin) < r.smallPathThreshold {
		r.fillSmall(xMin, xMax, yMin, yMax, emit)
	} else {
		r.fillLarge(xMin, xMax, yMin, yMax, emit)
	}
}

// Coverage accumulation:
//
// Each edge crossing a pixel contributes
//
//	cover = sign * dy
//	area  = cover * (1 - xFrac)
//
// where sign is +1 for downward edges and xFrac is the horizontal position
// of the crossing within the pixel. Integrating along the scanline,
//
//	coverage[i] = accumulated cover + area[i]
//
// gives the signed area of the shape within each pixel. The nonzero rule
// clamps its absolute value to [0, 1].

// accumulateEdge adds the contribution of e within scanline y to the
// buffers, which are indexed by x - bboxXMin. Contributions left of the
// buffer are folded into the first pixel.
func (r *Rasteriser) accumulateEdge(e *edge, y int, cover, area []float32, bboxXMin, bboxXMax int) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	pixLeft := int(math.Floor(min(xTop, xBot)))
	pixRight := int(math.Floor(max(xTop, xBot)))

	if pixRight < bboxXMin {
		c := sign * float32(yBot-yTop)
		cover[0] += c
		area[0] += c
		return
	}
	if pixLeft >= bboxXMax {
		return
	}

	if pixLeft == pixRight {
		r.accumulateSpan(e, yTop, yBot, sign, pixLeft, cover, area, bboxXMin, bboxXMax)
		return
	}

	// the edge crosses several pixel columns: split at column boundaries
	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		ya := e.y0 + dydx*(float64(pix)-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		segTop := max(min(ya, yb), yTop)
		segBot := min(max(ya, yb), yBot)
		if segBot <= segTop {
			continue
		}
		r.accumulateSpan(e, segTop, segBot, sign, pix, cover, area, bboxXMin, bboxXMax)
	}
}

// accumulateSpan adds the part of e between yTop and yBot, which lies in
// the single pixel column pix.
func (r *Rasteriser) accumulateSpan(e *edge, yTop, yBot float64, sign float32, pix int, cover, area []float32, bboxXMin, bboxXMax int) {
	c := sign * float32(yBot-yTop)
	switch {
	case pix < bboxXMin:
		cover[0] += c
		area[0] += c
	case pix < bboxXMax:
		xMid := e.x0 + e.dxdy*((yTop+yBot)/2-e.y0)
		xFrac := xMid - float64(pix)
		idx := pix - bboxXMin
		cover[idx] += c
		area[idx] += c * float32(1-xFrac)
	}
}

// integrateNonZero converts accumulated cover/area values into coverage
// using the nonzero winding rule. The cover slice is overwritten.
func integrateNonZero(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// trimZeros returns the non-zero part of coverage and its offset.
func trimZeros(coverage []float32) (trimmed []float32, offset int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	for hi > lo && coverage[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return coverage[lo:hi], lo
}

// fillSmall rasterises using 2D accumulation buffers covering the whole
// bounding box.
func (r *Rasteriser) fillSmall(xMin, xMax, yMin, yMax int, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	height := yMax - yMin

	size := width * height
	r.cover = slices.Grow(r.cover[:0], size)[:size]
	r.area = slices.Grow(r.area[:0], size)[:size]
	clear(r.cover)
	clear(r.area)
	r.rowHasEdges = slices.Grow(r.rowHasEdges[:0], height)[:height]
	clear(r.rowHasEdges)

	for i := range r.edges {
		e := &r.edges[i]
		top := max(int(math.Floor(min(e.y0, e.y1))), yMin)
		bot := min(int(math.Floor(max(e.y0, e.y1)))+1, yMax)
		for y := top; y < bot; y++ {
			row := y - yMin
			off := row * width
			r.accumulateEdge(e, y, r.cover[off:off+width], r.area[off:off+width], xMin, xMax)
			r.rowHasEdges[row] = true
		}
	}

	for row := range height {
		if !r.rowHasEdges[row] {
			continue
		}
		off := row * width
		coverage := r.cover[off : off+width]
		integrateNonZero(coverage, r.area[off:off+width])
		if trimmed, dx := trimZeros(coverage); trimmed != nil {
			emit(yMin+row, xMin+dx, trimmed)
		}
	}
}

// fillLarge rasterises one scanline at a time, using an active edge list.
func (r *Rasteriser) fillLarge(xMin, xMax, yMin, yMax int, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.activeIdx = r.activeIdx[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf := float64(y)
		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < yf+1 {
			r.activeIdx = append(r.activeIdx, next)
			next++
		}
		if len(r.activeIdx) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)

		touched := false
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if max(e.y0, e.y1) <= yf {
				last := len(r.activeIdx) - 1
				r.activeIdx[i] = r.activeIdx[last]
				r.activeIdx = r.activeIdx[:last]
				continue
			}
			r.accumulateEdge(e, y, r.cover, r.area, xMin, xMax)
			touched = true
			i++
		}
		if !touched {
			continue
		}

		integrateNonZero(r.cover, r.area)
		if trimmed, dx := trimZeros(r.cover); trimmed != nil {
			emit(y, xMin+dx, trimmed)
		}
	}
}

const (
	// defaultFlatness is the default approximation tolerance in pixels.
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// smallPathThreshold is the bounding box area (in pixels) below which
	// 2D buffers are used.
	smallPathThreshold = 65536

	// zeroLengthThreshold is the minimum length of a brush segment.
	zeroLengthThreshold = 1e-10
)
