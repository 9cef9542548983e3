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

package annotation

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"seehuhn.de/go/mask/region"
)

// Manager owns the committed mask objects of a job.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	scene      Scene
	objects    map[int]*MaskObject
	nextID     int
	appearance Appearance
	listeners  []func(Event)
	log        *slog.Logger
}

// NewManager returns an empty Manager for the given scene.
// If log is nil, nothing is logged.
func NewManager(scene Scene, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		scene:      scene,
		objects:    make(map[int]*MaskObject),
		nextID:     1,
		appearance: DefaultAppearance,
		log:        log,
	}
}

// Scene returns the scene the manager was created for.
func (m *Manager) Scene() Scene {
	return m.scene
}

// Commit describes the result of an edit session.
type Commit struct {
	Frame int

	// Label is used for new objects. When editing, a non-empty Label
	// replaces the label of the object.
	Label string

	Region region.Region

	// EditID is the id of the object being edited, or 0 for a new object.
	EditID int

	// RemoveUnderlying removes the pixels of Region from all other objects
	// on the same frame.
	RemoveUnderlying bool

	// Source is recorded for new objects. The zero value means
	// SourceManual.
	Source Source

	// keep is exempt from RemoveUnderlying.
	keep int
}

// Outcome says what happened to the committed region.
type Outcome int

// These are the possible commit outcomes.
const (
	OutcomeCreated Outcome = iota + 1
	OutcomeUpdated
	OutcomeDeleted
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result reports the effects of a commit.
type Result struct {
	Outcome Outcome

	// ID is the id of the created, updated or deleted object.
	// It is 0 for discarded drawings.
	ID int

	// Removed lists the objects on the same frame which were deleted
	// because the new region covered all of their pixels.
	Removed []int

	// Reduced lists the objects on the same frame which lost some, but
	// not all, of their pixels.
	Reduced []int
}

// Commit stores the result of an edit session.
//
// All effects are computed before the manager is modified. If an error is
// returned, nothing has changed. Finishing with an empty region is not an
// error: a new drawing is discarded without using up an id, and an edited
// object is deleted.
func (m *Manager) Commit(c Commit) (Result, error) {
	var edited *MaskObject
	if c.EditID != 0 {
		edited = m.objects[c.EditID]
		if edited == nil {
			return Result{}, errors.Wrapf(ErrNotFound, "editing object %d", c.EditID)
		}
		if c.Frame != edited.Frame {
			return Result{}, errors.Wrapf(ErrFrameRange,
				"object %d is on frame %d, not %d", c.EditID, edited.Frame, c.Frame)
		}
	} else if !m.scene.HasFrame(c.Frame) {
		return Result{}, errors.Wrapf(ErrFrameRange, "frame %d", c.Frame)
	}

	r := c.Region.Clip(m.scene.Bounds())

	var res Result
	reduced := make(map[int]region.Region)
	if c.RemoveUnderlying && !r.IsEmpty() {
		for _, obj := range m.sorted(c.Frame) {
			if obj.ID == c.EditID || obj.ID == c.keep {
				continue
			}
			rest := obj.Region.Subtract(r)
			switch {
			case rest.IsEmpty():
				res.Removed = append(res.Removed, obj.ID)
			case !rest.Equal(obj.Region):
				res.Reduced = append(res.Reduced, obj.ID)
				reduced[obj.ID] = rest
			}
		}
	}

	// From here on, nothing can fail.

	for _, id := range res.Removed {
		delete(m.objects, id)
	}
	for _, id := range res.Reduced {
		m.objects[id].Region = reduced[id]
	}

	switch {
	case r.IsEmpty() && edited == nil:
		res.Outcome = OutcomeDiscarded
	case r.IsEmpty():
		res.Outcome = OutcomeDeleted
		res.ID = edited.ID
		delete(m.objects, edited.ID)
	case edited == nil:
		src := c.Source
		if src == "" {
			src = SourceManual
		}
		obj := m.add(MaskObject{
			Frame:   c.Frame,
			Label:   c.Label,
			Region:  r,
			Visible: true,
			Source:  src,
		})
		res.Outcome = OutcomeCreated
		res.ID = obj.ID
	default:
		edited.Region = r
		if c.Label != "" {
			edited.Label = c.Label
		}
		res.Outcome = OutcomeUpdated
		res.ID = edited.ID
	}

	commitsTotal.WithLabelValues(res.Outcome.String()).Inc()
	if !r.IsEmpty() {
		objectPixels.Observe(float64(r.Area()))
	}
	underlyingDeletedTotal.Add(float64(len(res.Removed)))
	m.log.Debug("mask committed",
		"frame", c.Frame,
		"outcome", res.Outcome.String(),
		"id", res.ID,
		"pixels", r.Area(),
		"removed", len(res.Removed),
		"reduced", len(res.Reduced))

	if len(res.Removed) > 0 {
		m.emit(Event{Kind: EventObjectsDeleted, Frame: c.Frame, IDs: slices.Clone(res.Removed)})
	}
	for _, id := range res.Reduced {
		m.emit(Event{Kind: EventUpdated, Frame: c.Frame, IDs: []int{id}})
	}
	switch res.Outcome {
	case OutcomeDiscarded:
		m.emit(Event{Kind: EventDiscarded, Frame: c.Frame})
	case OutcomeDeleted:
		m.emit(Event{Kind: EventDeleted, Frame: c.Frame, IDs: []int{res.ID}})
	case OutcomeCreated:
		m.emit(Event{Kind: EventCreated, Frame: c.Frame, IDs: []int{res.ID}})
	case OutcomeUpdated:
		m.emit(Event{Kind: EventUpdated, Frame: c.Frame, IDs: []int{res.ID}})
	}

	return res, nil
}

// add stores obj under a fresh id.
func (m *Manager) add(obj MaskObject) *MaskObject {
	obj.ID = m.nextID
	m.nextID++
	p := &obj
	m.objects[obj.ID] = p
	return p
}

// Remove deletes an object.
func (m *Manager) Remove(id int) error {
	obj := m.objects[id]
	if obj == nil {
		return errors.Wrapf(ErrNotFound, "removing object %d", id)
	}
	delete(m.objects, id)
	m.log.Debug("mask removed", "id", id, "frame", obj.Frame)
	m.emit(Event{Kind: EventDeleted, Frame: obj.Frame, IDs: []int{id}})
	return nil
}

// Object returns the object with the given id.
func (m *Manager) Object(id int) (MaskObject, bool) {
	obj := m.objects[id]
	if obj == nil {
		return MaskObject{}, false
	}
	return *obj, true
}

// Objects returns the objects on a frame, ordered by id.
func (m *Manager) Objects(frame int) []MaskObject {
	var res []MaskObject
	for _, obj := range m.sorted(frame) {
		res = append(res, *obj)
	}
	return res
}

// All returns all objects, ordered by id.
func (m *Manager) All() []MaskObject {
	res := make([]MaskObject, 0, len(m.objects))
	for _, id := range slices.Sorted(maps.Keys(m.objects)) {
		res = append(res, *m.objects[id])
	}
	return res
}

// Len returns the number of objects.
func (m *Manager) Len() int {
	return len(m.objects)
}

// NextID returns the id the next new object will get.
func (m *Manager) NextID() int {
	return m.nextID
}

// sorted returns pointers to the objects on a frame, ordered by id.
func (m *Manager) sorted(frame int) []*MaskObject {
	var res []*MaskObject
	for _, obj := range m.objects {
		if obj.Frame == frame {
			res = append(res, obj)
		}
	}
	slices.SortFunc(res, func(a, b *MaskObject) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}

// SetVisible shows or hides an object. The region is not changed.
func (m *Manager) SetVisible(id int, visible bool) error {
	obj := m.objects[id]
	if obj == nil {
		return errors.Wrapf(ErrNotFound, "object %d", id)
	}
	obj.Visible = visible
	return nil
}
