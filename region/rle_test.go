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
	"errors"
	"image"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestEncodeRLE(t *testing.T) {
	// .##
	// #..
	// ###  (box left=4, top=2, right=6, bottom=4)
	r := FromRows([]Row{
		{Y: 2, Spans: []Span{{X0: 5, X1: 7}}},
		{Y: 3, Spans: []Span{{X0: 4, X1: 5}}},
		{Y: 4, Spans: []Span{{X0: 4, X1: 7}}},
	})
	want := []int{1, 3, 2, 3, 4, 2, 6, 4}
	if got := EncodeRLE(r); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEncodeRLEEmpty(t *testing.T) {
	if got := EncodeRLE(Region{}); len(got) != 0 {
		t.Errorf("empty region encodes as %v", got)
	}
	r, err := DecodeRLE(nil, image.Rect(0, 0, 10, 10))
	if err != nil || !r.IsEmpty() {
		t.Errorf("decoding nil: %v, %v", r, err)
	}
}

func TestRLERoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := range 100 {
		g := randomGrid(rng, rng.Float64())
		r := g.region().Translate(image.Pt(rng.IntN(100)-50, rng.IntN(100)-50))

		enc := EncodeRLE(r)
		dec, err := DecodeRLE(enc, image.Rect(-100, -100, 200, 200))
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if !dec.Equal(r) {
			t.Fatalf("case %d: round trip changed the region", i)
		}
	}
}

func TestDecodeRLEErrors(t *testing.T) {
	cases := map[string][]int{
		"short":       {1, 0, 0},
		"inverted":    {1, 5, 0, 0, 0},
		"negative":    {-1, 2, 0, 0, 0, 0},
		"too long":    {0, 3, 0, 0, 1, 0},
		"too short":   {0, 1, 0, 0, 1, 0},
		"all cleared": {4, 0, 0, 1, 1},
		"outside":     {0, 4, 9, 9, 10, 10},
		"huge":        {0, 1 << 40, 0, 0, 1<<20 - 1, 1<<20 - 1},
	}
	bounds := image.Rect(0, 0, 10, 10)
	for name, data := range cases {
		if _, err := DecodeRLE(data, bounds); !errors.Is(err, ErrInvalidRLE) {
			t.Errorf("%s: got error %v", name, err)
		}
	}
}
