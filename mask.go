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

// Package mask implements a raster mask editor for image and video
// labelling.
//
// An [Editor] owns the mask objects of one labelling job. Masks are drawn
// in edit sessions: [Editor.Start] begins a new mask on the current frame,
// tool actions passed to [Editor.Apply] modify the working region, and
// [Editor.Finish] commits the result. At most one session is active at a
// time.
package mask

//go:generate go run ./testcases/export -o testdata/scenarios

import (
	"context"
	"image"
	"log/slog"

	"github.com/pkg/errors"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/config"
	"seehuhn.de/go/mask/region"
	"seehuhn.de/go/mask/render"
	"seehuhn.de/go/mask/session"
	"seehuhn.de/go/mask/store"
	"seehuhn.de/go/mask/tool"
)

var (
	// ErrSessionActive is returned when an operation needs the editor to
	// be idle, but a mask is being drawn.
	ErrSessionActive = errors.New("edit session active")

	// ErrNoSession is returned for session operations when no mask is
	// being drawn.
	ErrNoSession = errors.New("no edit session")

	// ErrNoStore is returned by Save and Load for editors without a store.
	ErrNoStore = errors.New("no job store")
)

// Editor is the mask editor for one labelling job.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	manager    *annotation.Manager
	dispatcher *tool.Dispatcher
	panel      tool.State
	session    *session.Session
	frame      int

	store *store.Store
	job   string
	log   *slog.Logger
}

// New returns an editor with no objects. If st is nil, the editor cannot
// save or load jobs. If log is nil, nothing is logged.
func New(cfg *config.Config, st *store.Store, log *slog.Logger) (*Editor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	m := annotation.NewManager(cfg.Scene, log)
	if err := m.SetAppearance(cfg.Appearance); err != nil {
		return nil, err
	}
	return &Editor{
		manager:    m,
		dispatcher: tool.NewDispatcher(cfg.Scene.Bounds()),
		panel:      cfg.Panel(),
		store:      st,
		job:        cfg.Storage.Job,
		log:        log,
	}, nil
}

// Manager gives access to the committed objects. Changing objects through
// the manager while a mask is drawn can make [Editor.Finish] fail.
func (e *Editor) Manager() *annotation.Manager {
	return e.manager
}

// Scene returns the scene of the job.
func (e *Editor) Scene() annotation.Scene {
	return e.manager.Scene()
}

// Drawing reports whether a mask is being drawn.
func (e *Editor) Drawing() bool {
	return e.session != nil && e.session.State() == session.Drawing
}

func (e *Editor) checkIdle(op string) error {
	if e.Drawing() {
		return errors.Wrap(ErrSessionActive, op)
	}
	return nil
}

// Frame returns the current frame.
func (e *Editor) Frame() int {
	return e.frame
}

// GoTo changes the current frame. A finished session cannot be continued
// after the frame has changed.
func (e *Editor) GoTo(frame int) error {
	if err := e.checkIdle("go to frame"); err != nil {
		return err
	}
	if !e.Scene().HasFrame(frame) {
		return errors.Wrapf(annotation.ErrFrameRange, "frame %d", frame)
	}
	if frame != e.frame {
		e.session = nil
	}
	e.frame = frame
	return nil
}

// Start begins drawing a new mask with the given label on the current
// frame.
func (e *Editor) Start(label string) error {
	return e.start(label, nil)
}

// Edit begins editing object id. The current frame changes to the frame
// of the object.
func (e *Editor) Edit(id int) error {
	if err := e.checkIdle("edit"); err != nil {
		return err
	}
	obj, ok := e.manager.Object(id)
	if !ok {
		return errors.Wrapf(annotation.ErrNotFound, "editing object %d", id)
	}
	e.frame = obj.Frame
	return e.start("", &obj)
}

func (e *Editor) start(label string, base *annotation.MaskObject) error {
	if err := e.checkIdle("start"); err != nil {
		return err
	}
	s := session.New(e.dispatcher, e.manager, e.panel)
	if err := s.Start(e.frame, label, base); err != nil {
		return err
	}
	e.session = s
	e.log.Debug("drawing started", "frame", e.frame, "label", s.Label(), "edit", s.EditID())
	return nil
}

// Apply applies a tool action to the mask being drawn.
func (e *Editor) Apply(a tool.Action) (tool.Status, error) {
	if e.session == nil {
		return tool.Status{}, errors.Wrap(ErrNoSession, "apply")
	}
	st, err := e.session.Apply(a)
	if err != nil {
		return st, err
	}
	e.syncPanel()
	return st, nil
}

// SelectTool makes k the active tool of the current session.
func (e *Editor) SelectTool(k tool.Kind) error {
	if e.session == nil {
		return errors.Wrap(ErrNoSession, "select tool")
	}
	if err := e.session.Select(k); err != nil {
		return err
	}
	e.syncPanel()
	return nil
}

// Tools returns the state of the tool panel. While a mask is drawn, this
// includes the working region.
func (e *Editor) Tools() tool.State {
	if e.Drawing() {
		return e.session.Tools()
	}
	return e.panel
}

// Finish commits the mask being drawn.
func (e *Editor) Finish() (annotation.Result, error) {
	if e.session == nil {
		return annotation.Result{}, errors.Wrap(ErrNoSession, "finish")
	}
	res, err := e.session.Finish()
	if err != nil {
		return res, err
	}
	e.syncPanel()
	e.log.Info("mask finished",
		"frame", e.session.Frame(),
		"outcome", res.Outcome.String(),
		"id", res.ID,
		"removed", len(res.Removed))
	return res, nil
}

// Continue starts drawing another mask on the same frame, after the
// previous one was finished.
func (e *Editor) Continue() error {
	if e.session == nil {
		return errors.Wrap(ErrNoSession, "continue")
	}
	if e.session.Frame() != e.frame {
		return errors.Wrapf(ErrNoSession, "continue on frame %d", e.frame)
	}
	return e.session.Continue()
}

// Cancel discards the mask being drawn. The committed objects are not
// changed.
func (e *Editor) Cancel() error {
	if e.session == nil {
		return errors.Wrap(ErrNoSession, "cancel")
	}
	if err := e.session.Cancel(); err != nil {
		return err
	}
	e.syncPanel()
	e.session = nil
	e.log.Debug("drawing cancelled", "frame", e.frame)
	return nil
}

// syncPanel keeps the tool settings for the next session.
func (e *Editor) syncPanel() {
	p := e.session.Tools()
	p.Region = region.Region{}
	e.panel = p
}

// Objects returns the objects on the current frame, ordered by id.
func (e *Editor) Objects() []annotation.MaskObject {
	return e.manager.Objects(e.frame)
}

// Object returns the committed object with the given id.
func (e *Editor) Object(id int) (annotation.MaskObject, bool) {
	return e.manager.Object(id)
}

// Remove deletes object id.
func (e *Editor) Remove(id int) error {
	if err := e.checkIdle("remove"); err != nil {
		return err
	}
	return e.manager.Remove(id)
}

// Copy copies object id to another frame.
func (e *Editor) Copy(id, frame int, opt annotation.CopyOptions) (annotation.MaskObject, error) {
	if err := e.checkIdle("copy"); err != nil {
		return annotation.MaskObject{}, err
	}
	return e.manager.Copy(id, frame, opt)
}

// Propagate copies object id to the following frames, see
// [annotation.Manager.Propagate].
func (e *Editor) Propagate(id int, through *int) ([]annotation.MaskObject, error) {
	if err := e.checkIdle("propagate"); err != nil {
		return nil, err
	}
	return e.manager.Propagate(id, through)
}

// SetVisible shows or hides object id.
func (e *Editor) SetVisible(id int, visible bool) error {
	return e.manager.SetVisible(id, visible)
}

// SetOpacity sets the opacity of unselected objects.
func (e *Editor) SetOpacity(v float64) error {
	return e.manager.SetOpacity(v)
}

// SetSelectedOpacity sets the opacity of the object being edited.
func (e *Editor) SetSelectedOpacity(v float64) error {
	return e.manager.SetSelectedOpacity(v)
}

// Image draws the current frame. While a mask is drawn, the working
// region replaces the committed region of the edited object and is drawn
// with the selected opacity.
func (e *Editor) Image(opt render.Options) *image.RGBA {
	objs := e.Objects()
	if e.Drawing() {
		editID := e.session.EditID()
		working := annotation.MaskObject{
			ID:      editID,
			Label:   e.session.Label(),
			Region:  e.session.Region(),
			Visible: true,
		}
		var keep []annotation.MaskObject
		for _, obj := range objs {
			if obj.ID != editID {
				keep = append(keep, obj)
			}
		}
		objs = append(keep, working)
		opt.Selected = editID
	}
	return render.Image(e.Scene(), objs, e.manager.Appearance(), opt)
}

// SetStore replaces the job store. With a nil store, Save and Load fail
// with ErrNoStore.
func (e *Editor) SetStore(st *store.Store) {
	e.store = st
}

// Save stores all objects and display settings of the job.
func (e *Editor) Save(ctx context.Context) error {
	if err := e.checkIdle("save"); err != nil {
		return err
	}
	if e.store == nil {
		return ErrNoStore
	}
	return e.store.Save(ctx, e.job, e.manager.Snapshot())
}

// Load replaces all objects and display settings by the stored state of
// the job.
func (e *Editor) Load(ctx context.Context) error {
	if err := e.checkIdle("load"); err != nil {
		return err
	}
	if e.store == nil {
		return ErrNoStore
	}
	snap, err := e.store.Load(ctx, e.job)
	if err != nil {
		return err
	}
	if err := e.manager.Restore(snap); err != nil {
		return err
	}
	scene := e.Scene()
	e.dispatcher = tool.NewDispatcher(scene.Bounds())
	e.session = nil
	e.frame = min(e.frame, scene.LastFrame())
	e.log.Info("job loaded", "job", e.job, "objects", e.manager.Len())
	return nil
}
