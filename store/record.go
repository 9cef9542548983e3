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

package store

import (
	"encoding/json"
	"image"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/region"
)

// Record is the stored form of a mask object.
type Record struct {
	ID          int        `json:"id"`
	Frame       int        `json:"frame"`
	Label       string     `json:"label"`
	RLE         []int      `json:"rle"`
	LinkedGroup *uuid.UUID `json:"linked_group,omitempty"`
	Visible     bool       `json:"visible"`
	Source      string     `json:"source"`
}

// NewRecord converts a mask object to its stored form.
func NewRecord(obj annotation.MaskObject) Record {
	rec := Record{
		ID:      obj.ID,
		Frame:   obj.Frame,
		Label:   obj.Label,
		RLE:     region.EncodeRLE(obj.Region),
		Visible: obj.Visible,
		Source:  string(obj.Source),
	}
	if obj.LinkedGroup != uuid.Nil {
		g := obj.LinkedGroup
		rec.LinkedGroup = &g
	}
	return rec
}

// Object converts a record back into a mask object. The region must lie
// inside bounds.
func (rec Record) Object(bounds image.Rectangle) (annotation.MaskObject, error) {
	r, err := region.DecodeRLE(rec.RLE, bounds)
	if err != nil {
		return annotation.MaskObject{}, errors.Wrapf(err, "object %d", rec.ID)
	}
	obj := annotation.MaskObject{
		ID:      rec.ID,
		Frame:   rec.Frame,
		Label:   rec.Label,
		Region:  r,
		Visible: rec.Visible,
		Source:  annotation.Source(rec.Source),
	}
	if rec.LinkedGroup != nil {
		obj.LinkedGroup = *rec.LinkedGroup
	}
	return obj, nil
}

// meta is the stored form of the job-wide data, except for the appearance.
type meta struct {
	Scene  annotation.Scene `json:"scene"`
	NextID int              `json:"next_id"`
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	return data, nil
}

func unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(ErrCorrupt, err.Error())
	}
	return nil
}
