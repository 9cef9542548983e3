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

// Package annotation keeps the committed mask objects of a labelling job.
//
// A [Manager] owns all objects of all frames. Objects enter the manager
// through [Manager.Commit], [Manager.Copy] and [Manager.Propagate], and are
// handed out by value. Since regions are immutable, a returned object can
// be kept and modified by the caller without affecting the manager.
package annotation

import (
	"image"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"seehuhn.de/go/mask/region"
)

var (
	// ErrNotFound is returned for object ids which are not in use.
	ErrNotFound = errors.New("object not found")

	// ErrFrameRange is returned for frame numbers outside the scene, and
	// for propagation ranges which end before the source frame.
	ErrFrameRange = errors.New("frame out of range")

	// ErrInvalidOpacity is returned for opacities outside [0, 1].
	ErrInvalidOpacity = errors.New("opacity out of range")

	// ErrInvalidSnapshot is returned when restoring inconsistent data.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrOutsideScene is returned when a copy would have no pixels
	// inside the scene.
	ErrOutsideScene = errors.New("region outside the scene")
)

// Source records how a mask object was created.
type Source string

// These are the possible object sources.
const (
	SourceManual      Source = "manual"
	SourceCopy        Source = "copy"
	SourcePropagation Source = "propagation"
)

// MaskObject is a committed mask on one frame.
type MaskObject struct {
	ID     int
	Frame  int
	Label  string
	Region region.Region

	// Visible controls whether the object is drawn. Hidden objects keep
	// their region and take part in all editing operations.
	Visible bool

	// LinkedGroup is shared by objects created through propagation from
	// a common source. It is uuid.Nil for objects which are not linked.
	LinkedGroup uuid.UUID

	Source Source
}

// Scene describes the image sequence being labelled.
type Scene struct {
	Width  int `yaml:"width" json:"width" validate:"gt=0"`
	Height int `yaml:"height" json:"height" validate:"gt=0"`
	Frames int `yaml:"frames" json:"frames" validate:"gt=0"`
}

// Bounds returns the pixel rectangle shared by all frames.
func (s Scene) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// LastFrame returns the number of the last frame.
func (s Scene) LastFrame() int {
	return s.Frames - 1
}

// HasFrame reports whether frame is part of the scene.
func (s Scene) HasFrame(frame int) bool {
	return frame >= 0 && frame < s.Frames
}
