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

// Package render draws mask objects into images and PDF files.
package render

import (
	"hash/fnv"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/region"
)

// palette holds the colours used for object labels.
var palette = []color.NRGBA{
	{R: 0xe6, G: 0x19, B: 0x4b, A: 0xff},
	{R: 0x3c, G: 0xb4, B: 0x4b, A: 0xff},
	{R: 0x43, G: 0x63, B: 0xd8, A: 0xff},
	{R: 0xf5, G: 0x82, B: 0x31, A: 0xff},
	{R: 0x91, G: 0x1e, B: 0xb4, A: 0xff},
	{R: 0x46, G: 0xf0, B: 0xf0, A: 0xff},
	{R: 0xf0, G: 0x32, B: 0xe6, A: 0xff},
	{R: 0xbc, G: 0xf6, B: 0x0c, A: 0xff},
}

// LabelColor returns the colour used to draw objects with the given label.
// Equal labels always get the same colour.
func LabelColor(label string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(label))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Draw composites the pixels of r onto dst, using colour c at the given
// opacity. Nothing is drawn for opacity 0.
func Draw(dst draw.Image, r region.Region, c color.Color, opacity float64) {
	if opacity <= 0 || r.IsEmpty() {
		return
	}
	box := r.Bounds().Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	alpha := uint8(min(opacity, 1)*255 + 0.5)
	mask := image.NewAlpha(box)
	for y, spans := range r.Rows() {
		if y < box.Min.Y || y >= box.Max.Y {
			continue
		}
		for _, s := range spans {
			x0 := max(s.X0, box.Min.X)
			x1 := min(s.X1, box.Max.X)
			for x := x0; x < x1; x++ {
				mask.Pix[mask.PixOffset(x, y)] = alpha
			}
		}
	}

	draw.DrawMask(dst, box, image.NewUniform(c), image.Point{}, mask, box.Min, draw.Over)
}

// Frame draws all objects in objs, in order. Hidden objects are skipped.
// The object with id selected is drawn with the selected opacity.
func Frame(dst draw.Image, objs []annotation.MaskObject, app annotation.Appearance, selected int) {
	for _, obj := range objs {
		Draw(dst, obj.Region, LabelColor(obj.Label), app.OpacityFor(obj, obj.ID == selected))
	}
}

// Options control [Image].
type Options struct {
	// Background fills the image before the objects are drawn.
	Background color.Color

	// Scale enlarges the output by an integer factor. Values below 1 are
	// treated as 1.
	Scale int

	// Selected is the id of the selected object, or 0.
	Selected int
}

// Image returns a new image showing the objects of one frame.
func Image(scene annotation.Scene, objs []annotation.MaskObject, app annotation.Appearance, opt Options) *image.RGBA {
	bg := opt.Background
	if bg == nil {
		bg = color.Black
	}
	img := image.NewRGBA(scene.Bounds())
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	Frame(img, objs, app, opt.Selected)

	if opt.Scale <= 1 {
		return img
	}
	b := img.Bounds()
	big := image.NewRGBA(image.Rect(0, 0, b.Dx()*opt.Scale, b.Dy()*opt.Scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), img, b, draw.Src, nil)
	return big
}
