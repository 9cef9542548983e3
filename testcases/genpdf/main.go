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

// Command genpdf replays the built-in scenarios and writes the final state
// of every frame as a PDF page and a PNG image, for visual inspection.
package main

import (
	"context"
	"fmt"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/render"
	"seehuhn.de/go/mask/testcases"
)

const refDir = "testdata/reference"

func main() {
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		panic(err)
	}

	ctx := context.Background()
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			e, err := testcases.Play(ctx, &sc, nil, nil)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			m := e.Manager()
			scene := m.Scene()
			for frame := range scene.Frames {
				objs := m.Objects(frame)
				if len(objs) == 0 {
					continue
				}
				base := filepath.Join(refDir, fmt.Sprintf("%s_%d", name, frame))

				err := render.WritePDF(base+".pdf", scene, objs, m.Appearance(), 0)
				if err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
				if err := writePNG(base+".png", scene, objs, m.Appearance()); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
			}
		}
	}
}

func writePNG(fname string, scene annotation.Scene, objs []annotation.MaskObject, app annotation.Appearance) (err error) {
	img := render.Image(scene, objs, app, render.Options{})

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
