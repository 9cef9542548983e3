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

package region

import (
	"cmp"
	"image"
	"slices"
	"sync"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/mask/raster"
)

// CoverageThreshold is the minimum coverage for a pixel to be included
// in a rasterised region.
const CoverageThreshold = 0.5

// Builder collects pixels into a Region. The zero value is ready to use.
type Builder struct {
	rows   []Row
	sorted bool // rows are strictly increasing in y
}

// AddSpan adds the pixels [x0, x1) of row y.
func (b *Builder) AddSpan(y, x0, x1 int) {
	if x1 <= x0 {
		return
	}
	n := len(b.rows)
	switch {
	case n == 0:
		b.sorted = true
	case b.rows[n-1].Y == y:
		last := &b.rows[n-1]
		if k := len(last.Spans) - 1; x0 >= last.Spans[k].X0 {
			if x0 <= last.Spans[k].X1 {
				last.Spans[k].X1 = max(last.Spans[k].X1, x1)
			} else {
				last.Spans = append(last.Spans, Span{X0: x0, X1: x1})
			}
			return
		}
		last.Spans = unionSpans(last.Spans, []Span{{X0: x0, X1: x1}})
		return
	case b.rows[n-1].Y > y:
		b.sorted = false
	}
	b.rows = append(b.rows, Row{Y: y, Spans: []Span{{X0: x0, X1: x1}}})
}

// Emit adds the pixels of one row of rasteriser output whose coverage
// reaches CoverageThreshold. Its signature matches the emit callbacks of
// package raster.
func (b *Builder) Emit(y, xMin int, coverage []float32) {
	start := -1
	for i, c := range coverage {
		in := c >= CoverageThreshold
		switch {
		case in && start < 0:
			start = i
		case !in && start >= 0:
			b.AddSpan(y, xMin+start, xMin+i)
			start = -1
		}
	}
	if start >= 0 {
		b.AddSpan(y, xMin+start, xMin+len(coverage))
	}
}

// Region returns the collected pixels and resets the Builder.
func (b *Builder) Region() Region {
	rows := b.rows
	sorted := b.sorted
	b.rows = nil
	b.sorted = false
	if len(rows) == 0 {
		return Region{}
	}
	if sorted {
		return Region{rows: rows}
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Compare(a.Y, b.Y)
	})
	res := rows[:1]
	for _, row := range rows[1:] {
		last := &res[len(res)-1]
		if row.Y == last.Y {
			last.Spans = unionSpans(last.Spans, row.Spans)
		} else {
			res = append(res, row)
		}
	}
	return Region{rows: res}
}

// FromPolygon returns the pixels inside the closed polygon with the given
// vertices, restricted to bounds. The polygon is filled using the nonzero
// winding rule.
func FromPolygon(vertices []vec.Vec2, bounds image.Rectangle) Region {
	var b Builder
	r := getRasteriser(bounds)
	r.FillPolygon(vertices, b.Emit)
	rasterisers.Put(r)
	return b.Region()
}

// FromBrushStroke returns the pixels painted by a brush of the given size
// moved along the polyline through points, restricted to bounds.
// The tip selects the brush form, see [raster.Rasteriser.Sweep].
func FromBrushStroke(points []vec.Vec2, size float64, tip graphics.LineCapStyle, bounds image.Rectangle) Region {
	var b Builder
	r := getRasteriser(bounds)
	r.Sweep(points, size, tip, b.Emit)
	rasterisers.Put(r)
	return b.Region()
}

// rasterisers keeps the coverage buffers of earlier calls.
var rasterisers = sync.Pool{
	New: func() any { return raster.NewRasteriser(rect.Rect{}) },
}

func getRasteriser(bounds image.Rectangle) *raster.Rasteriser {
	r := rasterisers.Get().(*raster.Rasteriser)
	r.Reset(rect.Rect{
		LLx: float64(bounds.Min.X),
		LLy: float64(bounds.Min.Y),
		URx: float64(bounds.Max.X),
		URy: float64(bounds.Max.Y),
	})
	return r
}
