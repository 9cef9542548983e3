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
	"image"
	"math/rand/v2"
	"testing"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

const gridSize = 24

// grid is a brute-force pixel set used to check the span arithmetic.
type grid [gridSize][gridSize]bool

func randomGrid(rng *rand.Rand, density float64) *grid {
	var g grid
	for y := range gridSize {
		for x := range gridSize {
			g[y][x] = rng.Float64() < density
		}
	}
	return &g
}

func (g *grid) region() Region {
	var rows []Row
	for y := range gridSize {
		for x := range gridSize {
			if g[y][x] {
				rows = append(rows, Row{Y: y, Spans: []Span{{X0: x, X1: x + 1}}})
			}
		}
	}
	rng := rand.New(rand.NewPCG(1, 2))
	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return FromRows(rows)
}

func (g *grid) check(t *testing.T, name string, r Region) {
	t.Helper()
	for y := range gridSize {
		for x := range gridSize {
			if got := r.Contains(x, y); got != g[y][x] {
				t.Fatalf("%s: pixel (%d,%d) is %t, want %t", name, x, y, got, g[y][x])
			}
		}
	}
	canonical(t, name, r)
}

// canonical verifies the representation invariants.
func canonical(t *testing.T, name string, r Region) {
	t.Helper()
	for i, row := range r.rows {
		if i > 0 && r.rows[i-1].Y >= row.Y {
			t.Fatalf("%s: rows out of order at y=%d", name, row.Y)
		}
		if len(row.Spans) == 0 {
			t.Fatalf("%s: empty row at y=%d", name, row.Y)
		}
		for j, s := range row.Spans {
			if s.X0 >= s.X1 {
				t.Fatalf("%s: empty span %v at y=%d", name, s, row.Y)
			}
			if j > 0 && row.Spans[j-1].X1 >= s.X0 {
				t.Fatalf("%s: spans %v and %v not separated at y=%d", name, row.Spans[j-1], s, row.Y)
			}
		}
	}
}

func TestBooleanOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 50 {
		ga := randomGrid(rng, rng.Float64())
		gb := randomGrid(rng, rng.Float64())
		a, b := ga.region(), gb.region()

		var gu, gs, gi grid
		for y := range gridSize {
			for x := range gridSize {
				gu[y][x] = ga[y][x] || gb[y][x]
				gs[y][x] = ga[y][x] && !gb[y][x]
				gi[y][x] = ga[y][x] && gb[y][x]
			}
		}

		ga.check(t, "a", a)
		gu.check(t, "union", a.Union(b))
		gs.check(t, "subtract", a.Subtract(b))
		gi.check(t, "intersect", a.Intersect(b))

		if !a.Union(b).Equal(b.Union(a)) {
			t.Fatal("union is not commutative")
		}
	}
}

func TestOpsDoNotModifyInputs(t *testing.T) {
	a := Rect(image.Rect(0, 0, 10, 10))
	b := Rect(image.Rect(5, 5, 15, 15))
	aCopy := FromRows([]Row{})
	for y, spans := range a.Rows() {
		aCopy = aCopy.Union(FromRows([]Row{{Y: y, Spans: spans}}))
	}

	_ = a.Union(b)
	_ = a.Subtract(b)
	_ = a.Intersect(b)
	if !a.Equal(aCopy) || a.Area() != 100 {
		t.Error("input region was modified")
	}

	for _, spans := range a.Rows() {
		spans[0].X1 = 1000
	}
	if a.Area() != 100 {
		t.Error("Rows exposes internal storage")
	}
}

func TestSubtractToEmpty(t *testing.T) {
	a := Rect(image.Rect(10, 10, 20, 20))
	r := a.Subtract(Rect(image.Rect(0, 0, 100, 100)))
	if !r.IsEmpty() {
		t.Fatalf("expected empty region, got area %d", r.Area())
	}
	if !r.Equal(Region{}) {
		t.Error("empty result differs from the zero Region")
	}
	if r.Bounds() != (image.Rectangle{}) {
		t.Errorf("empty region has bounds %v", r.Bounds())
	}
}

func TestSubtractDisconnects(t *testing.T) {
	a := Rect(image.Rect(0, 0, 30, 10))
	r := a.Subtract(Rect(image.Rect(10, -5, 20, 15)))
	if r.Area() != 200 {
		t.Errorf("area %d, want 200", r.Area())
	}
	if r.Contains(15, 5) || !r.Contains(5, 5) || !r.Contains(25, 5) {
		t.Error("wrong pixels after cutting the region in two")
	}
	if r.Bounds() != image.Rect(0, 0, 30, 10) {
		t.Errorf("bounds %v", r.Bounds())
	}
}

func TestTranslate(t *testing.T) {
	r := Rect(image.Rect(0, 0, 3, 2)).Translate(image.Pt(5, 7))
	if r.Bounds() != image.Rect(5, 7, 8, 9) {
		t.Errorf("bounds %v", r.Bounds())
	}
}

func TestFromPolygonRectangle(t *testing.T) {
	bounds := image.Rect(0, 0, 64, 64)
	r := FromPolygon([]vec.Vec2{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 20}, {X: 10, Y: 20}}, bounds)
	if !r.Equal(Rect(image.Rect(10, 10, 30, 20))) {
		t.Errorf("got bounds %v area %d", r.Bounds(), r.Area())
	}

	// orientation does not matter
	rev := FromPolygon([]vec.Vec2{{X: 10, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 10}, {X: 10, Y: 10}}, bounds)
	if !rev.Equal(r) {
		t.Error("reversed polygon gives a different region")
	}
}

func TestFromPolygonClipped(t *testing.T) {
	bounds := image.Rect(0, 0, 16, 16)
	r := FromPolygon([]vec.Vec2{{X: -5, Y: -5}, {X: 50, Y: -5}, {X: 50, Y: 50}, {X: -5, Y: 50}}, bounds)
	if !r.Equal(Rect(bounds)) {
		t.Errorf("got bounds %v", r.Bounds())
	}
}

func TestFromPolygonDegenerate(t *testing.T) {
	bounds := image.Rect(0, 0, 16, 16)
	if r := FromPolygon([]vec.Vec2{{X: 1, Y: 1}, {X: 10, Y: 10}}, bounds); !r.IsEmpty() {
		t.Error("two vertices must give an empty region")
	}
	if r := FromPolygon([]vec.Vec2{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 9, Y: 1}}, bounds); !r.IsEmpty() {
		t.Error("collinear vertices must give an empty region")
	}
}

func TestFromBrushStroke(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	sq := FromBrushStroke([]vec.Vec2{{X: 20, Y: 20}, {X: 40, Y: 20}}, 10, graphics.LineCapSquare, bounds)
	if !sq.Equal(Rect(image.Rect(15, 15, 45, 25))) {
		t.Errorf("square brush: bounds %v area %d", sq.Bounds(), sq.Area())
	}

	disk := FromBrushStroke([]vec.Vec2{{X: 50, Y: 50}}, 20, graphics.LineCapRound, bounds)
	if !disk.Contains(50, 50) || disk.Contains(50, 62) || disk.Contains(38, 50) {
		t.Error("disk covers the wrong pixels")
	}
	if a := disk.Area(); a < 300 || a > 330 {
		t.Errorf("disk area %d, want about 314", a)
	}

	if r := FromBrushStroke(nil, 10, graphics.LineCapRound, bounds); !r.IsEmpty() {
		t.Error("no points must give an empty region")
	}
}

func TestBuilderUnsorted(t *testing.T) {
	var b Builder
	b.AddSpan(5, 0, 3)
	b.AddSpan(2, 4, 6)
	b.AddSpan(5, 3, 4)
	b.AddSpan(5, 10, 12)
	b.AddSpan(5, 1, 2)
	b.AddSpan(2, 0, 0)
	r := b.Region()

	canonical(t, "builder", r)
	if r.Area() != 8 {
		t.Errorf("area %d, want 8", r.Area())
	}
	if !b.Region().IsEmpty() {
		t.Error("builder was not reset")
	}
}
