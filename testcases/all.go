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

package testcases

import "seehuhn.de/go/mask/annotation"

// All contains all built-in scenarios, grouped by category.
var All = map[string][]Scenario{
	"drawing":    drawing,
	"editing":    editing,
	"frames":     frames,
	"appearance": appearance,
}

// scene is the image sequence used by the built-in scenarios.
var scene = annotation.Scene{Width: 1000, Height: 800, Frames: 3}

var subtractive = []string{"eraser", "polygon-minus"}

// drawingActions exercises every tool, changing the brush size in between.
var drawingActions = []Step{
	brush(300, 300, 700, 300, 700, 700, 300, 700),
	polygonPlus(450, 210, 650, 400, 450, 600, 260, 400),
	brushSize(150),
	eraser(500, 500),
	brushSize(10),
	polygonMinus(450, 400, 600, 400, 450, 550, 310, 400),
}

var editingActions = []Step{
	polygonMinus(50, 400, 800, 400, 800, 800, 50, 800),
}

// steps concatenates step lists.
func steps(lists ...[]Step) []Step {
	var res []Step
	for _, l := range lists {
		res = append(res, l...)
	}
	return res
}

func op(name string) Step {
	return Step{Op: name}
}

func start(label string) Step {
	return Step{Op: OpStart, Label: label}
}

func finish(outcome string) Step {
	return Step{Op: OpFinish, Outcome: outcome}
}

func withError(s Step, name string) Step {
	s.Error = name
	return s
}

func coords(xy []float64) [][2]float64 {
	res := make([][2]float64, len(xy)/2)
	for i := range res {
		res[i] = [2]float64{xy[2*i], xy[2*i+1]}
	}
	return res
}

func brush(xy ...float64) Step {
	return Step{Op: OpBrush, Points: coords(xy)}
}

func eraser(xy ...float64) Step {
	return Step{Op: OpEraser, Points: coords(xy)}
}

func polygonPlus(xy ...float64) Step {
	return Step{Op: OpPolygonPlus, Points: coords(xy)}
}

func polygonMinus(xy ...float64) Step {
	return Step{Op: OpPolygonMinus, Points: coords(xy)}
}

func brushSize(v float64) Step {
	return Step{Op: OpBrushSize, Value: v}
}

func checkTools(active string, disabled ...string) Step {
	if disabled == nil {
		disabled = []string{}
	}
	return Step{Op: OpCheck, Tool: active, Disabled: disabled}
}

func checkCount(n int) Step {
	return Step{Op: OpCheck, Count: intPtr(n)}
}

var drawing = []Scenario{
	{
		Name:        "two_masks_save_reload",
		Description: "draw two masks using continue, save the job and load it again",
		Scene:       scene,
		Steps: steps(
			[]Step{start("object")},
			drawingActions,
			[]Step{
				finish("created"),
				op(OpContinue),
				checkTools("brush", subtractive...),
			},
			drawingActions,
			[]Step{
				finish("created"),
				op(OpSave),
				op(OpLoad),
				checkCount(2),
			},
		),
		Expect: []Expected{
			{ID: 1, Frame: 0, Label: "object", MinArea: 10000, Source: "manual"},
			{ID: 2, Frame: 0, Label: "object", MinArea: 10000, Source: "manual"},
		},
	},
	{
		Name:        "erase_to_empty",
		Description: "subtractive tools are disabled on an empty mask, which is not stored",
		Scene:       scene,
		Steps: []Step{
			start("object"),
			brush(450, 250, 600, 400, 450, 550, 300, 400),
			checkTools("brush"),
			polygonMinus(100, 100, 700, 100, 700, 700, 100, 700),
			{Op: OpSelectTool, Tool: "brush"},
			checkTools("brush", subtractive...),
			withError(eraser(450, 250), "tool-disabled"),
			withError(Step{Op: OpSelectTool, Tool: "eraser"}, "tool-disabled"),
			finish("discarded"),
			checkCount(0),
		},
	},
	{
		Name:        "tool_reset_on_new_mask",
		Description: "finishing with a subtractive tool, the next mask starts with the brush",
		Scene:       scene,
		Steps: []Step{
			start("object"),
			brush(450, 250, 600, 400, 450, 550, 300, 400),
			polygonMinus(100, 100, 400, 100, 400, 400, 100, 400),
			finish("created"),
			start("object"),
			checkTools("brush", subtractive...),
			finish("discarded"),

			start("object"),
			brush(550, 350, 700, 500, 550, 650, 400, 500),
			eraser(550, 350),
			checkTools("eraser"),
			finish("created"),
			start("object"),
			checkTools("brush", subtractive...),
			finish("discarded"),
			checkCount(2),
		},
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 1000},
			{ID: 2, Frame: 0, MinArea: 1000},
		},
	},
	{
		Name:        "underlying_pixels",
		Description: "masks fully covered by a new mask are deleted, others survive",
		Scene:       scene,
		Steps: []Step{
			start("object"),
			op(OpUnderlyingPixels),
			finish("discarded"),

			start("object"),
			brush(20, 20, 60, 60),
			finish("created"),
			start("object"),
			brush(250, 250, 270, 270),
			finish("created"),
			start("object"),
			brush(350, 350, 370, 370),
			finish("created"),
			checkCount(3),

			start("object"),
			polygonPlus(100, 100, 400, 100, 400, 400, 100, 400),
			{Op: OpFinish, Outcome: "created", Removed: intPtr(2)},
			checkCount(2),
		},
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 500, MaxArea: 800},
			{ID: 4, Frame: 0, MinArea: 300 * 300, MaxArea: 300 * 300},
		},
	},
	{
		Name:        "square_brush",
		Description: "a square brush tip paints axis-aligned squares",
		Scene:       scene,
		Steps: []Step{
			start("object"),
			{Op: OpBrushTip, Tip: "square"},
			brushSize(20),
			brush(100, 100, 200, 100),
			withError(brushSize(0), "invalid-action"),
			finish("created"),
		},
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 120 * 20, MaxArea: 120 * 20},
		},
	},
}

var editing = []Scenario{
	{
		Name:        "edit_mask",
		Description: "an edited mask keeps its id",
		Scene:       scene,
		Steps: steps(
			[]Step{start("object")},
			drawingActions,
			[]Step{
				finish("created"),
				{Op: OpEdit, ID: 1},
				checkTools("brush"),
			},
			editingActions,
			[]Step{finish("updated")},
		),
		Expect: []Expected{
			{ID: 1, Frame: 0, Label: "object", MinArea: 1000},
		},
	},
	{
		Name:        "edit_to_empty",
		Description: "erasing all pixels of an edited mask deletes it",
		Scene:       scene,
		Steps: []Step{
			start("object"),
			polygonPlus(10, 10, 50, 10, 50, 50, 10, 50),
			finish("created"),
			{Op: OpEdit, ID: 1},
			polygonMinus(0, 0, 100, 0, 100, 100, 0, 100),
			finish("deleted"),
			checkCount(0),
		},
	},
	{
		Name:        "cancel_keeps_objects",
		Description: "cancelling an edit leaves the committed mask alone",
		Scene:       scene,
		Steps: []Step{
			start("object"),
			polygonPlus(10, 10, 50, 10, 50, 50, 10, 50),
			finish("created"),
			{Op: OpEdit, ID: 1},
			polygonMinus(0, 0, 100, 0, 100, 100, 0, 100),
			op(OpCancel),
			withError(op(OpCancel), "no-session"),
		},
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 1600, MaxArea: 1600},
		},
	},
	{
		Name:        "session_errors",
		Description: "operations which do not fit the editor state are rejected",
		Scene:       scene,
		Steps: []Step{
			withError(brush(10, 10), "no-session"),
			withError(op(OpFinish), "no-session"),
			withError(op(OpContinue), "no-session"),
			start("object"),
			withError(start("object"), "session-active"),
			withError(Step{Op: OpGoTo, Frame: 1}, "session-active"),
			withError(op(OpSave), "session-active"),
			withError(op(OpLoad), "session-active"),
			withError(op(OpContinue), "invalid-state"),
			withError(Step{Op: OpEdit, ID: 1}, "session-active"),
			withError(Step{Op: OpBrush}, "invalid-action"),
			op(OpCancel),
			withError(Step{Op: OpEdit, ID: 1}, "not-found"),
		},
	},
}

var frames = []Scenario{
	{
		Name:        "propagate",
		Description: "propagation reaches the last frame by default",
		Scene:       scene,
		Steps: steps(
			[]Step{start("object")},
			drawingActions,
			[]Step{
				finish("created"),
				{Op: OpPropagate, ID: 1},
				{Op: OpGoTo, Frame: 1},
				checkCount(1),
				{Op: OpGoTo, Frame: 2},
				checkCount(1),
			},
		),
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 10000, Linked: true, Source: "manual"},
			{ID: 2, Frame: 1, MinArea: 10000, Linked: true, Source: "propagation"},
			{ID: 3, Frame: 2, MinArea: 10000, Linked: true, Source: "propagation"},
		},
	},
	{
		Name:        "copy",
		Description: "a copy is an independent object on another frame",
		Scene:       scene,
		Steps: steps(
			[]Step{start("object")},
			drawingActions,
			[]Step{
				finish("created"),
				{Op: OpCopy, ID: 1, Frame: 2},
				{Op: OpCopy, ID: 1, Frame: 1, Offset: &[2]int{30, -20}},
				{Op: OpGoTo, Frame: 2},
				checkCount(1),
			},
		),
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 10000},
			{ID: 2, Frame: 2, MinArea: 10000, Source: "copy"},
			{ID: 3, Frame: 1, MinArea: 10000, Source: "copy"},
		},
	},
	{
		Name:        "frame_range",
		Description: "cross-frame operations outside the scene fail without effect",
		Scene:       scene,
		Steps: []Step{
			start("object"),
			polygonPlus(10, 10, 50, 10, 50, 50, 10, 50),
			finish("created"),
			withError(Step{Op: OpPropagate, ID: 1, Through: intPtr(5)}, "frame-range"),
			withError(Step{Op: OpCopy, ID: 1, Frame: 3}, "frame-range"),
			withError(Step{Op: OpCopy, ID: 1, Frame: 1, Offset: &[2]int{2000, 0}}, "outside-scene"),
			withError(Step{Op: OpGoTo, Frame: 3}, "frame-range"),
			withError(Step{Op: OpPropagate, ID: 7}, "not-found"),
		},
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 1600, MaxArea: 1600},
		},
	},
}

var appearance = []Scenario{
	{
		Name:        "hidden_stays_hidden",
		Description: "changing frame or opacity does not show a hidden mask",
		Scene:       scene,
		Steps: steps(
			[]Step{start("object")},
			drawingActions,
			[]Step{
				finish("created"),
				{Op: OpVisible, ID: 1, Visible: boolPtr(false)},
				{Op: OpGoTo, Frame: 2},
				{Op: OpGoTo, Frame: 0},
				{Op: OpOpacity, Value: 1},
				{Op: OpOpacity, Value: 0.5},
				withError(Step{Op: OpOpacity, Value: 1.5}, "invalid-opacity"),
			},
		),
		Expect: []Expected{
			{ID: 1, Frame: 0, MinArea: 10000, Hidden: true},
		},
	},
}
