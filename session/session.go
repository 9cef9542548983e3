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

// Package session implements the drawing of a single mask.
//
// A [Session] moves through the states Idle, Drawing and then either
// Committed or Cancelled. While drawing, tool actions modify a private
// working region. Committed objects are only touched when the session is
// finished.
package session

import (
	"fmt"

	"github.com/pkg/errors"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/region"
	"seehuhn.de/go/mask/tool"
)

// ErrInvalidState is returned when a method is called in a state which
// does not allow it.
var ErrInvalidState = errors.New("invalid session state")

// State is the state of a Session.
type State int

// These are the session states.
const (
	Idle State = iota
	Drawing
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Committer stores finished masks. It is implemented by
// [annotation.Manager].
type Committer interface {
	Commit(c annotation.Commit) (annotation.Result, error)
}

// Session is one mask editing session.
//
// A Session is not safe for concurrent use.
type Session struct {
	state      State
	dispatcher *tool.Dispatcher
	committer  Committer

	frame  int
	label  string
	editID int
	tools  tool.State
}

// New returns an idle session. The brush size, brush tip and the
// underlying-pixels setting are taken from panel.
func New(d *tool.Dispatcher, c Committer, panel tool.State) *Session {
	panel.Region = region.Region{}
	panel.Tool = tool.KindBrush
	return &Session{
		state:      Idle,
		dispatcher: d,
		committer:  c,
		tools:      panel,
	}
}

// Start begins drawing on frame. If base is non-nil, the session edits
// this object and the working region starts out as a copy of its region.
// Otherwise a new object is drawn, starting from an empty region.
// The brush becomes the active tool.
func (s *Session) Start(frame int, label string, base *annotation.MaskObject) error {
	if s.state != Idle {
		return errors.Wrapf(ErrInvalidState, "start in state %s", s.state)
	}

	s.frame = frame
	s.label = label
	s.editID = 0
	s.tools.Region = region.Region{}
	if base != nil {
		s.frame = base.Frame
		s.editID = base.ID
		s.tools.Region = base.Region
		if label == "" {
			s.label = base.Label
		}
	}
	s.tools.Tool = tool.KindBrush
	s.state = Drawing
	return nil
}

// Apply applies one tool action to the working region.
func (s *Session) Apply(a tool.Action) (tool.Status, error) {
	if s.state != Drawing {
		return tool.Status{}, errors.Wrapf(ErrInvalidState, "apply in state %s", s.state)
	}
	next, st, err := s.dispatcher.Apply(s.tools, a)
	if err != nil {
		return st, err
	}
	s.tools = next
	return st, nil
}

// Select makes k the active tool.
func (s *Session) Select(k tool.Kind) error {
	if s.state != Drawing {
		return errors.Wrapf(ErrInvalidState, "select tool in state %s", s.state)
	}
	next, err := s.tools.Select(k)
	if err != nil {
		return err
	}
	s.tools = next
	return nil
}

// Finish hands the working region to the committer.
//
// An empty working region is not an error: the outcome in the result says
// whether the drawing was discarded or the edited object was deleted.
// If the committer fails, the session keeps drawing.
func (s *Session) Finish() (annotation.Result, error) {
	if s.state != Drawing {
		return annotation.Result{}, errors.Wrapf(ErrInvalidState, "finish in state %s", s.state)
	}
	res, err := s.committer.Commit(annotation.Commit{
		Frame:            s.frame,
		Label:            s.label,
		Region:           s.tools.Region,
		EditID:           s.editID,
		RemoveUnderlying: s.tools.RemoveUnderlying,
		Source:           annotation.SourceManual,
	})
	if err != nil {
		return annotation.Result{}, err
	}
	s.state = Committed
	return res, nil
}

// Continue starts drawing a new object on the same frame, after the
// previous one was finished. The tool configuration is kept, except that
// a subtractive tool is replaced by the brush, since the new working
// region is empty.
func (s *Session) Continue() error {
	if s.state != Committed {
		return errors.Wrapf(ErrInvalidState, "continue in state %s", s.state)
	}
	s.editID = 0
	s.tools.Region = region.Region{}
	if !s.tools.Enabled(s.tools.Tool) {
		s.tools.Tool = tool.KindBrush
	}
	s.state = Drawing
	return nil
}

// Cancel discards the working region.
func (s *Session) Cancel() error {
	if s.state != Drawing {
		return errors.Wrapf(ErrInvalidState, "cancel in state %s", s.state)
	}
	s.tools.Region = region.Region{}
	s.state = Cancelled
	return nil
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Frame returns the frame being drawn on.
func (s *Session) Frame() int {
	return s.frame
}

// Label returns the label of the mask being drawn.
func (s *Session) Label() string {
	return s.label
}

// EditID returns the id of the object being edited, or 0 when drawing a
// new object.
func (s *Session) EditID() int {
	return s.editID
}

// Tools returns the tool panel state, including the working region.
func (s *Session) Tools() tool.State {
	return s.tools
}

// Region returns the working region.
func (s *Session) Region() region.Region {
	return s.tools.Region
}
