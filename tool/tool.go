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

// Package tool turns mask editing actions into region operations.
//
// Additive tools (brush, polygon-plus) are always available. Subtractive
// tools (eraser, polygon-minus) are disabled while the working region is
// empty, since there is nothing to remove.
package tool

import (
	"fmt"
	"image"
	"math"

	"github.com/pkg/errors"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/mask/region"
)

var (
	// ErrToolDisabled is returned when a subtractive tool is used while
	// the working region is empty.
	ErrToolDisabled = errors.New("tool is disabled")

	// ErrInvalidAction is returned for malformed actions.
	ErrInvalidAction = errors.New("invalid action")
)

// Kind identifies a drawing tool.
type Kind int

// These are the drawing tools.
const (
	KindBrush Kind = iota
	KindEraser
	KindPolygonPlus
	KindPolygonMinus
)

// Kinds lists all drawing tools.
var Kinds = []Kind{KindBrush, KindEraser, KindPolygonPlus, KindPolygonMinus}

func (k Kind) String() string {
	switch k {
	case KindBrush:
		return "brush"
	case KindEraser:
		return "eraser"
	case KindPolygonPlus:
		return "polygon-plus"
	case KindPolygonMinus:
		return "polygon-minus"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Subtractive reports whether the tool removes pixels.
func (k Kind) Subtractive() bool {
	return k == KindEraser || k == KindPolygonMinus
}

// State is the working state of the tool panel.
type State struct {
	// Region is the mask being edited.
	Region region.Region

	// Tool is the active tool.
	Tool Kind

	// BrushSize is the diameter of the brush and eraser tips, in pixels.
	BrushSize float64

	// Tip is the brush form (graphics.LineCapRound or LineCapSquare).
	Tip graphics.LineCapStyle

	// RemoveUnderlying enables removal of the finished mask's pixels from
	// the other masks on the same frame.
	RemoveUnderlying bool
}

// Enabled reports whether tool k can be used in state s.
func (s State) Enabled(k Kind) bool {
	return !k.Subtractive() || !s.Region.IsEmpty()
}

// Tools reports the availability of every tool in state s.
func (s State) Tools() map[Kind]bool {
	res := make(map[Kind]bool, len(Kinds))
	for _, k := range Kinds {
		res[k] = s.Enabled(k)
	}
	return res
}

// Disabled lists the tools which cannot be used in state s.
func (s State) Disabled() []Kind {
	var res []Kind
	for _, k := range Kinds {
		if !s.Enabled(k) {
			res = append(res, k)
		}
	}
	return res
}

// Select makes k the active tool.
func (s State) Select(k Kind) (State, error) {
	if k < KindBrush || k > KindPolygonMinus {
		return s, errors.Wrapf(ErrInvalidAction, "unknown tool %d", int(k))
	}
	if !s.Enabled(k) {
		return s, errors.Wrapf(ErrToolDisabled, "%s on empty mask", k)
	}
	s.Tool = k
	return s, nil
}

// Status describes the working region after an action.
type Status struct {
	// Empty is set if the working region covers no pixels. While this is
	// the case, subtractive tools are disabled and finishing the mask
	// produces no object.
	Empty bool
}

// Dispatcher applies actions to tool states. All regions are restricted
// to Bounds.
type Dispatcher struct {
	Bounds image.Rectangle
}

// NewDispatcher returns a Dispatcher for images with the given bounds.
func NewDispatcher(bounds image.Rectangle) *Dispatcher {
	return &Dispatcher{Bounds: bounds}
}

// Apply applies one action to s and returns the new state.
// On error, s is returned unchanged.
func (d *Dispatcher) Apply(s State, a Action) (State, Status, error) {
	next := s
	switch a := a.(type) {
	case Brush:
		if len(a.Points) == 0 {
			return s, status(s), errors.Wrap(ErrInvalidAction, "brush stroke without points")
		}
		if !validSize(a.Size) {
			return s, status(s), errors.Wrapf(ErrInvalidAction, "brush size %g", a.Size)
		}
		next.Tool = KindBrush
		next.Region = s.Region.Union(d.stroke(s, a.Points, a.Size))

	case PolygonPlus:
		if len(a.Vertices) < 3 {
			return s, status(s), errors.Wrapf(ErrInvalidAction, "polygon with %d vertices", len(a.Vertices))
		}
		next.Tool = KindPolygonPlus
		next.Region = s.Region.Union(region.FromPolygon(a.Vertices, d.Bounds))

	case Eraser:
		if !s.Enabled(KindEraser) {
			return s, status(s), errors.Wrap(ErrToolDisabled, "eraser on empty mask")
		}
		if len(a.Points) == 0 {
			return s, status(s), errors.Wrap(ErrInvalidAction, "eraser stroke without points")
		}
		if !validSize(a.Size) {
			return s, status(s), errors.Wrapf(ErrInvalidAction, "eraser size %g", a.Size)
		}
		next.Tool = KindEraser
		next.Region = s.Region.Subtract(d.stroke(s, a.Points, a.Size))

	case PolygonMinus:
		if !s.Enabled(KindPolygonMinus) {
			return s, status(s), errors.Wrap(ErrToolDisabled, "polygon-minus on empty mask")
		}
		if len(a.Vertices) < 3 {
			return s, status(s), errors.Wrapf(ErrInvalidAction, "polygon with %d vertices", len(a.Vertices))
		}
		next.Tool = KindPolygonMinus
		next.Region = s.Region.Subtract(region.FromPolygon(a.Vertices, d.Bounds))

	case BrushSize:
		if !(a.Value > 0) {
			return s, status(s), errors.Wrapf(ErrInvalidAction, "brush size %g", a.Value)
		}
		next.BrushSize = a.Value

	case BrushTip:
		if a.Tip != graphics.LineCapRound && a.Tip != graphics.LineCapSquare {
			return s, status(s), errors.Wrapf(ErrInvalidAction, "brush tip %s", a.Tip)
		}
		next.Tip = a.Tip

	case UnderlyingPixels:
		next.RemoveUnderlying = !s.RemoveUnderlying

	default:
		return s, status(s), errors.Wrapf(ErrInvalidAction, "unsupported action %T", a)
	}
	return next, status(next), nil
}

// validSize reports whether size can be used for a stroke. Zero selects
// the brush size of the panel.
func validSize(size float64) bool {
	return size == 0 || size > 0 && !math.IsInf(size, 1)
}

// stroke rasterises a brush or eraser stroke.
func (d *Dispatcher) stroke(s State, points []vec.Vec2, size float64) region.Region {
	if size == 0 {
		size = s.BrushSize
	}
	return region.FromBrushStroke(points, size, s.Tip, d.Bounds)
}

func status(s State) Status {
	return Status{Empty: s.Region.IsEmpty()}
}
