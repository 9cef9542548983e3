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

package region

import (
	"image"

	"github.com/pkg/errors"
)

// ErrInvalidRLE is returned when decoding a malformed run-length encoding.
var ErrInvalidRLE = errors.New("invalid mask encoding")

// EncodeRLE returns the run-length encoding of the region.
//
// The encoding lists the lengths of alternating runs of unset and set
// pixels, scanning the bounding box of the region in row-major order and
// starting with a (possibly zero) run of unset pixels. The box follows as
// four values: left, top, right, bottom, all inclusive. The empty region
// is encoded as an empty list.
func EncodeRLE(r Region) []int {
	if r.IsEmpty() {
		return []int{}
	}

	box := r.Bounds()
	w := box.Dx()
	var runs []int
	last := 0 // linear index just after the previous run of set pixels
	for _, row := range r.rows {
		base := (row.Y - box.Min.Y) * w
		for _, s := range row.Spans {
			start := base + s.X0 - box.Min.X
			end := base + s.X1 - box.Min.X
			if len(runs) > 0 && start == last {
				// continues a run from the end of the previous row
				runs[len(runs)-1] += end - start
			} else {
				runs = append(runs, start-last, end-start)
			}
			last = end
		}
	}
	if total := w * box.Dy(); last < total {
		runs = append(runs, total-last)
	}

	return append(runs, box.Min.X, box.Min.Y, box.Max.X-1, box.Max.Y-1)
}

// DecodeRLE reverses EncodeRLE. Encodings whose bounding box does not lie
// inside bounds are rejected before any pixels are decoded.
func DecodeRLE(data []int, bounds image.Rectangle) (Region, error) {
	if len(data) == 0 {
		return Region{}, nil
	}
	if len(data) < 5 {
		return Region{}, errors.Wrapf(ErrInvalidRLE, "%d values", len(data))
	}

	n := len(data) - 4
	left, top, right, bottom := data[n], data[n+1], data[n+2], data[n+3]
	if right < left || bottom < top {
		return Region{}, errors.Wrapf(ErrInvalidRLE, "box [%d,%d,%d,%d]", left, top, right, bottom)
	}
	if left < bounds.Min.X || top < bounds.Min.Y || right >= bounds.Max.X || bottom >= bounds.Max.Y {
		return Region{}, errors.Wrapf(ErrInvalidRLE, "box [%d,%d,%d,%d] outside %v", left, top, right, bottom, bounds)
	}
	w := right - left + 1
	total := w * (bottom - top + 1)

	var b Builder
	pos := 0
	for i, run := range data[:n] {
		if run < 0 {
			return Region{}, errors.Wrapf(ErrInvalidRLE, "negative run at %d", i)
		}
		if run > total-pos {
			return Region{}, errors.Wrapf(ErrInvalidRLE, "runs exceed box area %d", total)
		}
		if i%2 == 1 {
			for p := pos; p < pos+run; {
				y, x := p/w, p%w
				end := min(pos+run, (y+1)*w)
				b.AddSpan(top+y, left+x, left+x+end-p)
				p = end
			}
		}
		pos += run
	}
	if pos != total {
		return Region{}, errors.Wrapf(ErrInvalidRLE, "runs cover %d of %d pixels", pos, total)
	}

	r := b.Region()
	if r.IsEmpty() {
		return Region{}, errors.Wrap(ErrInvalidRLE, "no pixels set")
	}
	return r, nil
}
