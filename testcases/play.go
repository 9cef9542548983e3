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

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/mask"
	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/config"
	"seehuhn.de/go/mask/session"
	"seehuhn.de/go/mask/store"
	"seehuhn.de/go/mask/tool"
)

// ErrMismatch is returned by Play when the editor does not behave as the
// scenario expects.
var ErrMismatch = errors.New("scenario mismatch")

var errorNames = []struct {
	name string
	err  error
}{
	{"tool-disabled", tool.ErrToolDisabled},
	{"invalid-action", tool.ErrInvalidAction},
	{"invalid-state", session.ErrInvalidState},
	{"session-active", mask.ErrSessionActive},
	{"no-session", mask.ErrNoSession},
	{"no-store", mask.ErrNoStore},
	{"frame-range", annotation.ErrFrameRange},
	{"not-found", annotation.ErrNotFound},
	{"invalid-opacity", annotation.ErrInvalidOpacity},
	{"outside-scene", annotation.ErrOutsideScene},
	{"job-not-found", store.ErrJobNotFound},
}

// ErrorName returns the short name used in scenario files for err,
// or the empty string if err is nil or not one of the editor errors.
func ErrorName(err error) string {
	for _, e := range errorNames {
		if errors.Is(err, e.err) {
			return e.name
		}
	}
	return ""
}

var toolNames = map[string]tool.Kind{}

var tipNames = map[string]graphics.LineCapStyle{
	"circle": graphics.LineCapRound,
	"square": graphics.LineCapSquare,
}

func init() {
	for _, k := range tool.Kinds {
		toolNames[k.String()] = k
	}
}

// Config returns the editor configuration for the scenario.
func (sc *Scenario) Config() *config.Config {
	cfg := config.Default()
	cfg.Scene = sc.Scene
	if sc.Tools != nil {
		cfg.Tools = *sc.Tools
	}
	return cfg
}

// Play runs the scenario on a new editor and checks all expectations.
// The editor is returned also when an expectation fails, so that the
// caller can inspect the final state.
// If st is nil, save and load steps use a private in-memory store. This
// store is closed when Play returns, and the returned editor has no store.
func Play(ctx context.Context, sc *Scenario, st *store.Store, log *slog.Logger) (*mask.Editor, error) {
	private := st == nil
	if private {
		mem, err := store.Open(store.InMemoryConfig())
		if err != nil {
			return nil, err
		}
		defer mem.Close()
		st = mem
	}

	e, err := mask.New(sc.Config(), st, log)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "scenario %s", sc.Name)
	}
	if private {
		defer e.SetStore(nil)
	}

	for i, step := range sc.Steps {
		err := run(ctx, e, &step)
		got := ErrorName(err)
		switch {
		case err != nil && got == "":
			return e, pkgerrors.Wrapf(err, "%s: step %d (%s)", sc.Name, i, step.Op)
		case got != step.Error:
			return e, pkgerrors.Wrapf(ErrMismatch, "%s: step %d (%s): error %q, want %q",
				sc.Name, i, step.Op, got, step.Error)
		}
	}

	if err := check(e, sc.Expect); err != nil {
		return e, pkgerrors.Wrap(err, sc.Name)
	}
	return e, nil
}

func run(ctx context.Context, e *mask.Editor, step *Step) error {
	var err error
	switch step.Op {
	case OpStart:
		err = e.Start(step.Label)
	case OpEdit:
		err = e.Edit(step.ID)

	case OpBrush:
		_, err = e.Apply(tool.Brush{Points: points(step.Points), Size: step.Size})
	case OpEraser:
		_, err = e.Apply(tool.Eraser{Points: points(step.Points), Size: step.Size})
	case OpPolygonPlus:
		_, err = e.Apply(tool.PolygonPlus{Vertices: points(step.Points)})
	case OpPolygonMinus:
		_, err = e.Apply(tool.PolygonMinus{Vertices: points(step.Points)})
	case OpBrushSize:
		_, err = e.Apply(tool.BrushSize{Value: step.Value})
	case OpBrushTip:
		tip, ok := tipNames[step.Tip]
		if !ok {
			return fmt.Errorf("unknown brush tip %q", step.Tip)
		}
		_, err = e.Apply(tool.BrushTip{Tip: tip})
	case OpUnderlyingPixels:
		_, err = e.Apply(tool.UnderlyingPixels{})
	case OpSelectTool:
		k, ok := toolNames[step.Tool]
		if !ok {
			return fmt.Errorf("unknown tool %q", step.Tool)
		}
		err = e.SelectTool(k)

	case OpFinish:
		var res annotation.Result
		res, err = e.Finish()
		if err != nil {
			break
		}
		if step.Outcome != "" && res.Outcome.String() != step.Outcome {
			return pkgerrors.Wrapf(ErrMismatch, "outcome %s, want %s", res.Outcome, step.Outcome)
		}
		if step.Removed != nil && len(res.Removed) != *step.Removed {
			return pkgerrors.Wrapf(ErrMismatch, "%d objects removed, want %d", len(res.Removed), *step.Removed)
		}
	case OpContinue:
		err = e.Continue()
	case OpCancel:
		err = e.Cancel()

	case OpGoTo:
		err = e.GoTo(step.Frame)
	case OpCopy:
		opt := annotation.CopyOptions{RemoveUnderlying: step.RemoveUnderlying}
		if step.Offset != nil {
			opt.Offset = image.Pt(step.Offset[0], step.Offset[1])
		}
		_, err = e.Copy(step.ID, step.Frame, opt)
	case OpPropagate:
		_, err = e.Propagate(step.ID, step.Through)
	case OpRemove:
		err = e.Remove(step.ID)
	case OpVisible:
		visible := step.Visible == nil || *step.Visible
		err = e.SetVisible(step.ID, visible)
	case OpOpacity:
		err = e.SetOpacity(step.Value)
	case OpSave:
		err = e.Save(ctx)
	case OpLoad:
		err = e.Load(ctx)

	case OpCheck:
		return checkStep(e, step)

	default:
		return fmt.Errorf("unknown step %q", step.Op)
	}
	return err
}

func checkStep(e *mask.Editor, step *Step) error {
	tools := e.Tools()
	if step.Tool != "" && tools.Tool.String() != step.Tool {
		return pkgerrors.Wrapf(ErrMismatch, "active tool %s, want %s", tools.Tool, step.Tool)
	}
	if step.Disabled != nil {
		var got []string
		for _, k := range tools.Disabled() {
			got = append(got, k.String())
		}
		want := slices.Clone(step.Disabled)
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			return pkgerrors.Wrapf(ErrMismatch, "disabled tools %v, want %v", got, want)
		}
	}
	if step.Count != nil {
		if n := len(e.Objects()); n != *step.Count {
			return pkgerrors.Wrapf(ErrMismatch, "%d objects on frame %d, want %d", n, e.Frame(), *step.Count)
		}
	}
	return nil
}

func check(e *mask.Editor, expect []Expected) error {
	all := e.Manager().All()
	if len(all) != len(expect) {
		ids := make([]int, len(all))
		for i, obj := range all {
			ids[i] = obj.ID
		}
		return pkgerrors.Wrapf(ErrMismatch, "objects %v, want %d objects", ids, len(expect))
	}
	for i, want := range expect {
		obj := all[i]
		area := obj.Region.Area()
		switch {
		case obj.ID != want.ID:
			return pkgerrors.Wrapf(ErrMismatch, "object %d has id %d", i, obj.ID)
		case obj.Frame != want.Frame:
			return pkgerrors.Wrapf(ErrMismatch, "object %d on frame %d, want %d", obj.ID, obj.Frame, want.Frame)
		case want.Label != "" && obj.Label != want.Label:
			return pkgerrors.Wrapf(ErrMismatch, "object %d has label %q, want %q", obj.ID, obj.Label, want.Label)
		case area < max(want.MinArea, 1):
			return pkgerrors.Wrapf(ErrMismatch, "object %d has %d pixels, want at least %d", obj.ID, area, want.MinArea)
		case want.MaxArea > 0 && area > want.MaxArea:
			return pkgerrors.Wrapf(ErrMismatch, "object %d has %d pixels, want at most %d", obj.ID, area, want.MaxArea)
		case obj.Visible == want.Hidden:
			return pkgerrors.Wrapf(ErrMismatch, "object %d visible=%t", obj.ID, obj.Visible)
		case (obj.LinkedGroup != uuid.Nil) != want.Linked:
			return pkgerrors.Wrapf(ErrMismatch, "object %d linked=%t", obj.ID, obj.LinkedGroup != uuid.Nil)
		case want.Source != "" && string(obj.Source) != want.Source:
			return pkgerrors.Wrapf(ErrMismatch, "object %d has source %s, want %s", obj.ID, obj.Source, want.Source)
		}
	}
	return nil
}
