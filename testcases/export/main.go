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

// Command export writes the built-in scenarios as YAML files, one file
// per scenario, so that they can be edited and replayed with maskctl.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/mask/testcases"
)

func main() {
	outDir := flag.String("o", "testdata/scenarios", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			data, err := testcases.Marshal(&sc)
			if err != nil {
				panic(fmt.Errorf("%s_%s: %w", category, sc.Name, err))
			}
			fname := filepath.Join(*outDir, category+"_"+sc.Name+".yaml")
			if err := os.WriteFile(fname, data, 0o644); err != nil {
				panic(err)
			}
		}
	}
}
