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
	"github.com/pkg/errors"
)

// Snapshot is the complete state of a Manager.
type Snapshot struct {
	Scene      Scene
	NextID     int
	Appearance Appearance
	Objects    []MaskObject
}

// Snapshot returns the current state of the manager.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Scene:      m.scene,
		NextID:     m.nextID,
		Appearance: m.appearance,
		Objects:    m.All(),
	}
}

// Restore replaces the state of the manager by s.
// If s is inconsistent, an error is returned and the manager is unchanged.
// Subscribers are kept, but no events are sent.
func (m *Manager) Restore(s Snapshot) error {
	if s.Scene.Width <= 0 || s.Scene.Height <= 0 || s.Scene.Frames <= 0 {
		return errors.Wrapf(ErrInvalidSnapshot, "scene %dx%d with %d frames",
			s.Scene.Width, s.Scene.Height, s.Scene.Frames)
	}
	if err := checkOpacity(s.Appearance.Opacity); err != nil {
		return errors.Wrap(ErrInvalidSnapshot, err.Error())
	}
	if err := checkOpacity(s.Appearance.SelectedOpacity); err != nil {
		return errors.Wrap(ErrInvalidSnapshot, err.Error())
	}

	objects := make(map[int]*MaskObject, len(s.Objects))
	nextID := max(s.NextID, 1)
	for _, obj := range s.Objects {
		obj.Region = obj.Region.Clip(s.Scene.Bounds())
		switch {
		case obj.ID <= 0:
			return errors.Wrapf(ErrInvalidSnapshot, "object id %d", obj.ID)
		case objects[obj.ID] != nil:
			return errors.Wrapf(ErrInvalidSnapshot, "duplicate object id %d", obj.ID)
		case !s.Scene.HasFrame(obj.Frame):
			return errors.Wrapf(ErrInvalidSnapshot, "object %d on frame %d", obj.ID, obj.Frame)
		case obj.Region.IsEmpty():
			return errors.Wrapf(ErrInvalidSnapshot, "object %d is empty", obj.ID)
		}
		if obj.Source == "" {
			obj.Source = SourceManual
		}
		objects[obj.ID] = &obj
		nextID = max(nextID, obj.ID+1)
	}

	m.scene = s.Scene
	m.nextID = nextID
	m.appearance = s.Appearance
	m.objects = objects
	m.log.Debug("masks restored", "objects", len(objects), "next_id", nextID)
	return nil
}
