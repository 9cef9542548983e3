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
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// BenchmarkFillDisk fills a large disk using the Rasteriser.
func BenchmarkFillDisk(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := NewRasteriser(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			c := float64(size) / 2
			centre := []vec.Vec2{{X: c, Y: c}}

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip)
				r.Sweep(centre, float64(size)*0.9, graphics.LineCapRound, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorDisk fills the same disk using x/image/vector.
func BenchmarkVectorDisk(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			z := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})

			c := float32(size) / 2
			b.ReportAllocs()
			for b.Loop() {
				z.Reset(size, size)
				vectorCircle(z, c, c, float32(size)*0.45, false)
				z.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// BenchmarkSweep paints a long zig-zag brush stroke.
func BenchmarkSweep(b *testing.B) {
	const size = 1000
	var points []vec.Vec2
	for i := range 50 {
		points = append(points, vec.Vec2{X: float64(20 * i), Y: float64(100 + 400*(i%2))})
	}

	for _, tip := range []graphics.LineCapStyle{graphics.LineCapRound, graphics.LineCapSquare} {
		b.Run(tip.String(), func(b *testing.B) {
			r := NewRasteriser(rect.Rect{URx: size, URy: size})
			b.ReportAllocs()
			for b.Loop() {
				r.Sweep(points, 30, tip, func(y, xMin int, coverage []float32) {})
			}
		})
	}
}

// vectorCircle adds a circle to a vector.Rasterizer.
func vectorCircle(z *vector.Rasterizer, cx, cy, radius float32, clockwise bool) {
	const k = float32(0.5522847498)
	kr := k * radius
	dir := float32(1)
	if clockwise {
		dir = -1
	}

	z.MoveTo(cx+radius, cy)
	z.CubeTo(cx+radius, cy+dir*kr, cx+kr, cy+dir*radius, cx, cy+dir*radius)
	z.CubeTo(cx-kr, cy+dir*radius, cx-radius, cy+dir*kr, cx-radius, cy)
	z.CubeTo(cx-radius, cy-dir*kr, cx-kr, cy-dir*radius, cx, cy-dir*radius)
	z.CubeTo(cx+kr, cy-dir*radius, cx+radius, cy-dir*kr, cx+radius, cy)
	z.ClosePath()
}
