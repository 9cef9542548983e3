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

import "fmt"

// EventKind classifies manager events.
type EventKind int

// These are the kinds of events sent to subscribers.
const (
	// EventCreated reports a new object.
	EventCreated EventKind = iota + 1

	// EventUpdated reports an object whose region changed.
	EventUpdated

	// EventDeleted reports an object which was removed by the user or
	// edited down to nothing.
	EventDeleted

	// EventObjectsDeleted reports objects which were removed because a new
	// mask covered all of their pixels. IDs lists at least one object.
	EventObjectsDeleted

	// EventDiscarded reports a finished drawing which covered no pixels.
	// No object was created and IDs is empty.
	EventDiscarded
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventDeleted:
		return "deleted"
	case EventObjectsDeleted:
		return "objects-deleted"
	case EventDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes a change of the committed objects.
type Event struct {
	Kind  EventKind
	Frame int
	IDs   []int
}

// Subscribe registers fn to be called after every change.
// Events are delivered synchronously, in the order the changes were made.
func (m *Manager) Subscribe(fn func(Event)) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(e Event) {
	for _, fn := range m.listeners {
		fn(e)
	}
}
