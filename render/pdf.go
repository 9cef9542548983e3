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

package render

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/mask/annotation"
)

// WritePDF writes the objects of one frame as a single page PDF file.
// One PDF unit corresponds to one pixel. Objects are drawn as grey
// rectangles on a white page, darker for more opaque objects.
func WritePDF(path string, scene annotation.Scene, objs []annotation.MaskObject, app annotation.Appearance, selected int) error {
	w := float64(scene.Width)
	h := float64(scene.Height)
	paper := &pdf.Rectangle{URx: w, URy: h}

	page, err := document.CreateSinglePage(path, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(pdfcolor.DeviceGray(1))
	page.Rectangle(0, 0, w, h)
	page.Fill()

	// image rows run downwards
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, h})

	for _, obj := range objs {
		opacity := app.OpacityFor(obj, obj.ID == selected)
		if opacity <= 0 {
			continue
		}
		page.SetFillColor(pdfcolor.DeviceGray(1 - opacity))
		n := 0
		for y, spans := range obj.Region.Rows() {
			for _, s := range spans {
				page.Rectangle(float64(s.X0), float64(y), float64(s.X1-s.X0), 1)
				n++
			}
		}
		if n > 0 {
			page.Fill()
		}
	}

	return page.Close()
}
