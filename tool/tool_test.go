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
	"errors"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/mask/region"
)

var bounds = image.Rect(0, 0, 100, 100)

func square(x0, y0, x1, y1 float64) []vec.Vec2 {
	return []vec.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func initial() State {
	return State{Tool: KindBrush, BrushSize: 10, Tip: graphics.LineCapSquare}
}

func TestAdditiveThenSubtractive(t *testing.T) {
	d := NewDispatcher(bounds)
	s := initial()

	s, st, err := d.Apply(s, Brush{Points: []vec.Vec2{{X: 20, Y: 20}, {X: 40, Y: 20}}})
	require.NoError(t, err)
	assert.False(t, st.Empty)
	assert.True(t, s.Region.Equal(region.Rect(image.Rect(15, 15, 45, 25))))

	s, _, err = d.Apply(s, PolygonPlus{Vertices: square(50, 50, 60, 60)})
	require.NoError(t, err)
	assert.Equal(t, KindPolygonPlus, s.Tool)
	assert.Equal(t, 30*10+10*10, s.Region.Area())

	s, st, err = d.Apply(s, PolygonMinus{Vertices: square(10, 10, 30, 30)})
	require.NoError(t, err)
	assert.False(t, st.Empty)
	want := region.Rect(image.Rect(30, 15, 45, 25)).Union(region.Rect(image.Rect(50, 50, 60, 60)))
	assert.True(t, s.Region.Equal(want))

	s, _, err = d.Apply(s, Eraser{Points: []vec.Vec2{{X: 55, Y: 55}}, Size: 4})
	require.NoError(t, err)
	assert.Equal(t, KindEraser, s.Tool)
	assert.Equal(t, want.Area()-16, s.Region.Area())
	assert.Equal(t, 10.0, s.BrushSize, "explicit stroke size must not change the brush size")
}

func TestEraseToEmptyDisablesTools(t *testing.T) {
	d := NewDispatcher(bounds)
	s := initial()

	assert.ElementsMatch(t, []Kind{KindEraser, KindPolygonMinus}, s.Disabled())

	s, _, err := d.Apply(s, Brush{Points: []vec.Vec2{{X: 50, Y: 50}}})
	require.NoError(t, err)
	assert.Empty(t, s.Disabled())

	s, st, err := d.Apply(s, PolygonMinus{Vertices: square(0, 0, 100, 100)})
	require.NoError(t, err)
	assert.True(t, st.Empty)
	assert.True(t, s.Region.IsEmpty())

	tools := s.Tools()
	assert.True(t, tools[KindBrush])
	assert.True(t, tools[KindPolygonPlus])
	assert.False(t, tools[KindEraser])
	assert.False(t, tools[KindPolygonMinus])

	for _, a := range []Action{
		Eraser{Points: []vec.Vec2{{X: 50, Y: 50}}},
		PolygonMinus{Vertices: square(0, 0, 10, 10)},
	} {
		next, st, err := d.Apply(s, a)
		assert.True(t, errors.Is(err, ErrToolDisabled), "%T: %v", a, err)
		assert.True(t, st.Empty)
		assert.Equal(t, s, next)
	}

	_, err = s.Select(KindEraser)
	assert.ErrorIs(t, err, ErrToolDisabled)

	s, _, err = d.Apply(s, PolygonPlus{Vertices: square(0, 0, 10, 10)})
	require.NoError(t, err)
	assert.Empty(t, s.Disabled())
	s, err = s.Select(KindEraser)
	require.NoError(t, err)
	assert.Equal(t, KindEraser, s.Tool)
}

func TestSettings(t *testing.T) {
	d := NewDispatcher(bounds)
	s := initial()

	s, _, err := d.Apply(s, BrushSize{Value: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.BrushSize)
	assert.True(t, s.Region.IsEmpty())

	for _, v := range []float64{0, -1} {
		_, _, err = d.Apply(s, BrushSize{Value: v})
		assert.ErrorIs(t, err, ErrInvalidAction)
	}

	s, _, err = d.Apply(s, UnderlyingPixels{})
	require.NoError(t, err)
	assert.True(t, s.RemoveUnderlying)
	s, _, err = d.Apply(s, UnderlyingPixels{})
	require.NoError(t, err)
	assert.False(t, s.RemoveUnderlying)

	s, _, err = d.Apply(s, BrushTip{Tip: graphics.LineCapRound})
	require.NoError(t, err)
	assert.Equal(t, graphics.LineCapRound, s.Tip)
	_, _, err = d.Apply(s, BrushTip{Tip: graphics.LineCapButt})
	assert.ErrorIs(t, err, ErrInvalidAction)

	// the brush size applies to subsequent strokes
	s, _, err = d.Apply(s, BrushTip{Tip: graphics.LineCapSquare})
	require.NoError(t, err)
	s, _, err = d.Apply(s, Brush{Points: []vec.Vec2{{X: 50.5, Y: 50.5}}})
	require.NoError(t, err)
	assert.Equal(t, 9, s.Region.Area())
}

func TestInvalidGeometry(t *testing.T) {
	d := NewDispatcher(bounds)
	s := initial()

	_, _, err := d.Apply(s, Brush{})
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, _, err = d.Apply(s, PolygonPlus{Vertices: square(0, 0, 1, 1)[:2]})
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, _, err = d.Apply(s, nil)
	assert.ErrorIs(t, err, ErrInvalidAction)

	s, _, err = d.Apply(s, PolygonPlus{Vertices: square(10, 10, 30, 30)})
	require.NoError(t, err)
	pts := []vec.Vec2{{X: 20, Y: 20}}
	for _, size := range []float64{-5, math.NaN(), math.Inf(1)} {
		next, _, err := d.Apply(s, Brush{Points: pts, Size: size})
		assert.ErrorIs(t, err, ErrInvalidAction, "brush size %g", size)
		assert.True(t, next.Region.Equal(s.Region))
		next, _, err = d.Apply(s, Eraser{Points: pts, Size: size})
		assert.ErrorIs(t, err, ErrInvalidAction, "eraser size %g", size)
		assert.True(t, next.Region.Equal(s.Region))
	}
}

func TestClippedToBounds(t *testing.T) {
	d := NewDispatcher(image.Rect(0, 0, 20, 20))
	s, _, err := d.Apply(initial(), PolygonPlus{Vertices: square(-10, -10, 50, 50)})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), s.Region.Bounds())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "polygon-minus", KindPolygonMinus.String())
	assert.True(t, KindEraser.Subtractive())
	assert.False(t, KindPolygonPlus.Subtractive())
}
