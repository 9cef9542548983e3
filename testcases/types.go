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

// Package testcases holds scripted mask editing scenarios.
//
// A [Scenario] is a list of steps, each of which is one call to the
// editor, together with the objects expected at the end. Scenarios can be
// written in YAML and replayed with [Play].
package testcases

import (
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/config"
)

// Scenario is a scripted editing session.
type Scenario struct {
	Name        string           `yaml:"name"` // lowercase a-z, 0-9 and _ only
	Description string           `yaml:"description,omitempty"`
	Scene       annotation.Scene `yaml:"scene"`
	Tools       *config.Tools    `yaml:"tools,omitempty"` // nil means the defaults
	Steps       []Step           `yaml:"steps"`
	Expect      []Expected       `yaml:"expect"`
}

// These are the step operations.
const (
	OpStart            = "start"
	OpEdit             = "edit"
	OpBrush            = "brush"
	OpEraser           = "eraser"
	OpPolygonPlus      = "polygon-plus"
	OpPolygonMinus     = "polygon-minus"
	OpBrushSize        = "brush-size"
	OpBrushTip         = "brush-tip"
	OpUnderlyingPixels = "underlying-pixels"
	OpSelectTool       = "select-tool"
	OpFinish           = "finish"
	OpContinue         = "continue"
	OpCancel           = "cancel"
	OpGoTo             = "goto"
	OpCopy             = "copy"
	OpPropagate        = "propagate"
	OpRemove           = "remove"
	OpVisible          = "visible"
	OpOpacity          = "opacity"
	OpSave             = "save"
	OpLoad             = "load"
	OpCheck            = "check"
)

// Step is one editor call. Only the fields used by Op are set.
type Step struct {
	Op string `yaml:"op"`

	Label            string       `yaml:"label,omitempty"`
	Points           [][2]float64 `yaml:"points,omitempty,flow"`
	Size             float64      `yaml:"size,omitempty"`
	Value            float64      `yaml:"value,omitempty"`
	Tip              string       `yaml:"tip,omitempty"`  // circle or square
	Tool             string       `yaml:"tool,omitempty"` // tool name, see tool.Kind
	ID               int          `yaml:"id,omitempty"`
	Frame            int          `yaml:"frame,omitempty"`
	Through          *int         `yaml:"through,omitempty"`
	Visible          *bool        `yaml:"visible,omitempty"`
	RemoveUnderlying bool         `yaml:"remove_underlying,omitempty"`
	Offset           *[2]int      `yaml:"offset,omitempty,flow"` // for OpCopy

	// Disabled lists the tools expected to be disabled, for OpCheck.
	Disabled []string `yaml:"disabled,omitempty,flow"`

	// Count is the expected number of objects on the current frame, for
	// OpCheck.
	Count *int `yaml:"count,omitempty"`

	// Removed is the expected number of objects deleted by a finish step
	// because of underlying pixel removal.
	Removed *int `yaml:"removed,omitempty"`

	// Outcome is the expected outcome of a finish step.
	Outcome string `yaml:"outcome,omitempty"`

	// Error names the error the step must fail with, see [ErrorName].
	Error string `yaml:"error,omitempty"`
}

// Expected describes one object present at the end of a scenario.
// Objects are listed in id order, and no other objects may exist.
type Expected struct {
	ID      int    `yaml:"id"`
	Frame   int    `yaml:"frame"`
	Label   string `yaml:"label,omitempty"`
	MinArea int    `yaml:"min_area,omitempty"`
	MaxArea int    `yaml:"max_area,omitempty"` // 0 means no limit
	Hidden  bool   `yaml:"hidden,omitempty"`
	Linked  bool   `yaml:"linked,omitempty"`
	Source  string `yaml:"source,omitempty"`
}

// points converts step coordinates to vectors.
func points(pts [][2]float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		res[i] = vec.Vec2{X: p[0], Y: p[1]}
	}
	return res
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
