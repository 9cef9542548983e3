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
	"image"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CopyOptions modify the behaviour of [Manager.Copy].
type CopyOptions struct {
	// RemoveUnderlying removes the copied pixels from the objects already
	// present on the target frame, as for a committed drawing.
	RemoveUnderlying bool

	// Offset moves the copy by this many pixels. Pixels moved outside
	// the scene are dropped.
	Offset image.Point
}

// Copy creates a new object on frame with the label and region of object
// id. The copy is not linked to the source. When copying onto the frame
// of the source, RemoveUnderlying leaves the source intact.
func (m *Manager) Copy(id, frame int, opt CopyOptions) (MaskObject, error) {
	src := m.objects[id]
	if src == nil {
		return MaskObject{}, errors.Wrapf(ErrNotFound, "copying object %d", id)
	}
	if !m.scene.HasFrame(frame) {
		return MaskObject{}, errors.Wrapf(ErrFrameRange, "copying to frame %d", frame)
	}

	r := src.Region.Translate(opt.Offset).Clip(m.scene.Bounds())
	if r.IsEmpty() {
		return MaskObject{}, errors.Wrapf(ErrOutsideScene, "copying object %d by %v", id, opt.Offset)
	}

	res, err := m.Commit(Commit{
		Frame:            frame,
		Label:            src.Label,
		Region:           r,
		RemoveUnderlying: opt.RemoveUnderlying,
		Source:           SourceCopy,
		keep:             id,
	})
	if err != nil {
		return MaskObject{}, err
	}
	crossFrameTotal.WithLabelValues(string(SourceCopy)).Inc()

	obj, _ := m.Object(res.ID)
	return obj, nil
}

// Propagate copies object id to every following frame up to and including
// frame *through, or up to the last frame of the scene if through is nil.
//
// The source object and all copies share a LinkedGroup; a new group is
// created if the source is not linked yet. All copies are taken from the
// region the source has when Propagate is called. The new objects are
// returned in frame order.
func (m *Manager) Propagate(id int, through *int) ([]MaskObject, error) {
	src := m.objects[id]
	if src == nil {
		return nil, errors.Wrapf(ErrNotFound, "propagating object %d", id)
	}
	last := m.scene.LastFrame()
	if through != nil {
		last = *through
	}
	if last < src.Frame || !m.scene.HasFrame(last) {
		return nil, errors.Wrapf(ErrFrameRange,
			"propagating from frame %d through %d", src.Frame, last)
	}
	if last == src.Frame {
		return nil, nil
	}

	if src.LinkedGroup == uuid.Nil {
		src.LinkedGroup = uuid.New()
	}
	snapshot := *src

	res := make([]MaskObject, 0, last-snapshot.Frame)
	for frame := snapshot.Frame + 1; frame <= last; frame++ {
		obj := m.add(MaskObject{
			Frame:       frame,
			Label:       snapshot.Label,
			Region:      snapshot.Region,
			Visible:     true,
			LinkedGroup: snapshot.LinkedGroup,
			Source:      SourcePropagation,
		})
		res = append(res, *obj)
	}
	crossFrameTotal.WithLabelValues(string(SourcePropagation)).Add(float64(len(res)))
	m.log.Debug("mask propagated",
		"id", id,
		"group", snapshot.LinkedGroup.String(),
		"from", snapshot.Frame+1,
		"through", last)

	for _, obj := range res {
		m.emit(Event{Kind: EventCreated, Frame: obj.Frame, IDs: []int{obj.ID}})
	}
	return res, nil
}

// Linked returns the objects of a linked group, ordered by id.
func (m *Manager) Linked(group uuid.UUID) []MaskObject {
	if group == uuid.Nil {
		return nil
	}
	var res []MaskObject
	for _, obj := range m.All() {
		if obj.LinkedGroup == group {
			res = append(res, obj)
		}
	}
	return res
}
