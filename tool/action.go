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

package tool

import (
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Action is one user input to a mask editing session.
// Actions are applied in order; they do not commute.
type Action interface {
	isAction()
}

// Brush paints along the polyline through Points.
// If Size is zero, the current brush size is used.
type Brush struct {
	Points []vec.Vec2
	Size   float64
}

// Eraser removes the pixels along the polyline through Points.
// If Size is zero, the current brush size is used.
type Eraser struct {
	Points []vec.Vec2
	Size   float64
}

// PolygonPlus adds the interior of a polygon.
type PolygonPlus struct {
	Vertices []vec.Vec2
}

// PolygonMinus removes the interior of a polygon.
type PolygonMinus struct {
	Vertices []vec.Vec2
}

// BrushSize sets the brush size used by Brush and Eraser.
type BrushSize struct {
	Value float64
}

// BrushTip sets the brush form: graphics.LineCapRound for a circle or
// graphics.LineCapSquare for a square.
type BrushTip struct {
	Tip graphics.LineCapStyle
}

// UnderlyingPixels toggles removal of underlying pixels from other masks
// on the same frame when the mask is finished.
type UnderlyingPixels struct{}

func (Brush) isAction()            {}
func (Eraser) isAction()           {}
func (PolygonPlus) isAction()      {}
func (PolygonMinus) isAction()     {}
func (BrushSize) isAction()        {}
func (BrushTip) isAction()         {}
func (UnderlyingPixels) isAction() {}
