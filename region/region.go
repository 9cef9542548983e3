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

// Package region implements pixel regions: finite sets of pixels with
// boolean composition.
//
// A Region is stored as a list of rows, sorted by y. Each row holds sorted,
// disjoint and non-adjacent half-open spans [X0, X1). This representation
// is canonical, so two regions cover the same pixels if and only if they
// are equal element by element. The zero value is the empty region.
//
// Regions are immutable. All operations return new values and never modify
// their inputs, so a Region can be shared freely.
package region

import (
	"image"
	"iter"
	"slices"
)

// Span is the half-open range of pixels [X0, X1) in one row.
type Span struct {
	X0, X1 int
}

// Row is the set of pixels of a region in the scanline Y.
type Row struct {
	Y     int
	Spans []Span
}

// Region is a set of pixels.
type Region struct {
	rows []Row
}

// FromRows returns the region covering all pixels in the given rows.
// The rows may be given in any order, rows may repeat and spans may
// overlap; empty spans are ignored.
func FromRows(rows []Row) Region {
	var b Builder
	for _, row := range rows {
		for _, s := range row.Spans {
			b.AddSpan(row.Y, s.X0, s.X1)
		}
	}
	return b.Region()
}

// Rect returns the region covering all pixels of the rectangle r.
func Rect(r image.Rectangle) Region {
	r = r.Canon()
	if r.Empty() {
		return Region{}
	}
	rows := make([]Row, 0, r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		rows = append(rows, Row{Y: y, Spans: []Span{{X0: r.Min.X, X1: r.Max.X}}})
	}
	return Region{rows: rows}
}

// IsEmpty reports whether the region covers no pixels.
func (r Region) IsEmpty() bool {
	return len(r.rows) == 0
}

// Equal reports whether r and other cover exactly the same pixels.
func (r Region) Equal(other Region) bool {
	return slices.EqualFunc(r.rows, other.rows, func(a, b Row) bool {
		return a.Y == b.Y && slices.Equal(a.Spans, b.Spans)
	})
}

// Area returns the number of pixels in the region.
func (r Region) Area() int {
	n := 0
	for _, row := range r.rows {
		for _, s := range row.Spans {
			n += s.X1 - s.X0
		}
	}
	return n
}

// Bounds returns the smallest rectangle containing all pixels of the region.
// The empty region has empty bounds.
func (r Region) Bounds() image.Rectangle {
	if len(r.rows) == 0 {
		return image.Rectangle{}
	}
	b := image.Rectangle{
		Min: image.Point{X: r.rows[0].Spans[0].X0, Y: r.rows[0].Y},
		Max: image.Point{X: r.rows[0].Spans[0].X1, Y: r.rows[len(r.rows)-1].Y + 1},
	}
	for _, row := range r.rows {
		b.Min.X = min(b.Min.X, row.Spans[0].X0)
		b.Max.X = max(b.Max.X, row.Spans[len(row.Spans)-1].X1)
	}
	return b
}

// Contains reports whether the pixel (x, y) belongs to the region.
func (r Region) Contains(x, y int) bool {
	i, ok := slices.BinarySearchFunc(r.rows, y, func(row Row, y int) int {
		return row.Y - y
	})
	if !ok {
		return false
	}
	spans := r.rows[i].Spans
	j, _ := slices.BinarySearchFunc(spans, x, func(s Span, x int) int {
		if s.X1 <= x {
			return -1
		}
		if s.X0 > x {
			return 1
		}
		return 0
	})
	return j < len(spans) && spans[j].X0 <= x && x < spans[j].X1
}

// Rows iterates over the non-empty rows of the region in order of
// increasing y. The span slices are copies and may be modified.
func (r Region) Rows() iter.Seq2[int, []Span] {
	return func(yield func(int, []Span) bool) {
		for _, row := range r.rows {
			if !yield(row.Y, slices.Clone(row.Spans)) {
				return
			}
		}
	}
}

// Pixels iterates over all pixels of the region in row-major order.
func (r Region) Pixels() iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for _, row := range r.rows {
			for _, s := range row.Spans {
				for x := s.X0; x < s.X1; x++ {
					if !yield(image.Point{X: x, Y: row.Y}) {
						return
					}
				}
			}
		}
	}
}

// Union returns the pixels which are in r or in other.
func (r Region) Union(other Region) Region {
	return Region{rows: combineRows(r.rows, other.rows, unionSpans, true, true)}
}

// Subtract returns the pixels of r which are not in other.
// The result may be empty or disconnected.
func (r Region) Subtract(other Region) Region {
	return Region{rows: combineRows(r.rows, other.rows, subtractSpans, true, false)}
}

// Intersect returns the pixels which are both in r and in other.
func (r Region) Intersect(other Region) Region {
	return Region{rows: combineRows(r.rows, other.rows, intersectSpans, false, false)}
}

// Clip returns the part of r inside the rectangle.
func (r Region) Clip(rect image.Rectangle) Region {
	return r.Intersect(Rect(rect))
}

// Translate returns the region shifted by d.
func (r Region) Translate(d image.Point) Region {
	if len(r.rows) == 0 {
		return r
	}
	rows := make([]Row, len(r.rows))
	for i, row := range r.rows {
		spans := make([]Span, len(row.Spans))
		for j, s := range row.Spans {
			spans[j] = Span{X0: s.X0 + d.X, X1: s.X1 + d.X}
		}
		rows[i] = Row{Y: row.Y + d.Y, Spans: spans}
	}
	return Region{rows: rows}
}

// combineRows merges two row lists. Rows present in only one of the
// lists are kept if keepA/keepB is set; rows present in both are combined
// using op. Rows which end up empty are dropped.
func combineRows(a, b []Row, op func(x, y []Span) []Span, keepA, keepB bool) []Row {
	var res []Row
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || i < len(a) && a[i].Y < b[j].Y:
			if keepA {
				res = append(res, a[i])
			}
			i++
		case i == len(a) || b[j].Y < a[i].Y:
			if keepB {
				res = append(res, b[j])
			}
			j++
		default:
			if spans := op(a[i].Spans, b[j].Spans); len(spans) > 0 {
				res = append(res, Row{Y: a[i].Y, Spans: spans})
			}
			i++
			j++
		}
	}
	return res
}

// unionSpans merges two canonical span lists.
func unionSpans(a, b []Span) []Span {
	res := make([]Span, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var s Span
		if j == len(b) || i < len(a) && a[i].X0 <= b[j].X0 {
			s = a[i]
			i++
		} else {
			s = b[j]
			j++
		}
		if n := len(res); n > 0 && s.X0 <= res[n-1].X1 {
			res[n-1].X1 = max(res[n-1].X1, s.X1)
			continue
		}
		res = append(res, s)
	}
	return res
}

// subtractSpans removes the pixels of b from a.
func subtractSpans(a, b []Span) []Span {
	var res []Span
	j := 0
	for _, s := range a {
		for j < len(b) && b[j].X1 <= s.X0 {
			j++
		}
		x := s.X0
		for k := j; k < len(b) && b[k].X0 < s.X1; k++ {
			if b[k].X0 > x {
				res = append(res, Span{X0: x, X1: b[k].X0})
			}
			x = max(x, b[k].X1)
		}
		if x < s.X1 {
			res = append(res, Span{X0: x, X1: s.X1})
		}
	}
	return res
}

// intersectSpans returns the pixels common to a and b.
func intersectSpans(a, b []Span) []Span {
	var res []Span
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := max(a[i].X0, b[j].X0)
		hi := min(a[i].X1, b[j].X1)
		if lo < hi {
			res = append(res, Span{X0: lo, X1: hi})
		}
		if a[i].X1 < b[j].X1 {
			i++
		} else {
			j++
		}
	}
	return res
}
