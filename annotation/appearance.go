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

// Appearance holds the scene-wide display settings.
// These never affect the regions of the objects.
type Appearance struct {
	// Opacity is used for drawing unselected objects.
	Opacity float64 `yaml:"opacity" json:"opacity" validate:"gte=0,lte=1"`

	// SelectedOpacity is used for drawing the selected object.
	SelectedOpacity float64 `yaml:"selected_opacity" json:"selected_opacity" validate:"gte=0,lte=1"`
}

// DefaultAppearance is the appearance of a new Manager.
var DefaultAppearance = Appearance{
	Opacity:         0.3,
	SelectedOpacity: 0.6,
}

// OpacityFor returns the opacity used for drawing obj.
// Hidden objects are fully transparent.
func (a Appearance) OpacityFor(obj MaskObject, selected bool) float64 {
	switch {
	case !obj.Visible:
		return 0
	case selected:
		return a.SelectedOpacity
	default:
		return a.Opacity
	}
}

func checkOpacity(v float64) error {
	if !(v >= 0 && v <= 1) {
		return errors.Wrapf(ErrInvalidOpacity, "%g", v)
	}
	return nil
}

// Appearance returns the current display settings.
func (m *Manager) Appearance() Appearance {
	return m.appearance
}

// SetOpacity sets the opacity of unselected objects.
func (m *Manager) SetOpacity(v float64) error {
	if err := checkOpacity(v); err != nil {
		return err
	}
	m.appearance.Opacity = v
	return nil
}

// SetSelectedOpacity sets the opacity of the selected object.
func (m *Manager) SetSelectedOpacity(v float64) error {
	if err := checkOpacity(v); err != nil {
		return err
	}
	m.appearance.SelectedOpacity = v
	return nil
}

// SetAppearance replaces all display settings at once.
func (m *Manager) SetAppearance(a Appearance) error {
	if err := checkOpacity(a.Opacity); err != nil {
		return err
	}
	if err := checkOpacity(a.SelectedOpacity); err != nil {
		return err
	}
	m.appearance = a
	return nil
}
