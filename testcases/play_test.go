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

package testcases

import (
	"context"
	"maps"
	"regexp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/mask"
)

var validName = regexp.MustCompile(`^[a-z0-9_]+$`)

func TestBuiltin(t *testing.T) {
	ctx := context.Background()
	seen := make(map[string]bool)
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, sc := range All[category] {
			name := category + "_" + sc.Name
			assert.Regexp(t, validName, sc.Name)
			assert.False(t, seen[name], "duplicate scenario %s", name)
			seen[name] = true

			t.Run(name, func(t *testing.T) {
				_, err := Play(ctx, &sc, nil, nil)
				require.NoError(t, err)
			})
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, sc := range All[category] {
			t.Run(category+"_"+sc.Name, func(t *testing.T) {
				data, err := Marshal(&sc)
				require.NoError(t, err)
				got, err := Parse(data)
				require.NoError(t, err)
				assert.Equal(t, sc.Name, got.Name)
				assert.Len(t, got.Steps, len(sc.Steps))

				_, err = Play(ctx, got, nil, nil)
				require.NoError(t, err)
			})
		}
	}
}

func TestPrivateStoreDetached(t *testing.T) {
	sc := All["drawing"][0]
	e, err := Play(context.Background(), &sc, nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Save(context.Background()), mask.ErrNoStore)
	assert.ErrorIs(t, e.Load(context.Background()), mask.ErrNoStore)
}

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(`
name: small
scene: {width: 40, height: 30, frames: 2}
tools: {brush_size: 4, brush_tip: square}
steps:
  - op: start
    label: cat
  - op: brush
    points: [[10, 10], [20, 10]]
  - op: finish
    outcome: created
  - op: propagate
    id: 1
expect:
  - {id: 1, frame: 0, label: cat, min_area: 56, max_area: 56, linked: true}
  - {id: 2, frame: 1, min_area: 56, max_area: 56, linked: true, source: propagation}
`))
	require.NoError(t, err)
	assert.Equal(t, 4.0, sc.Tools.BrushSize)
	require.Len(t, sc.Steps, 4)
	assert.Equal(t, [][2]float64{{10, 10}, {20, 10}}, sc.Steps[1].Points)

	_, err = Play(context.Background(), sc, nil, nil)
	require.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("name: x\nsteps: [{op: start, colour: red}]\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("steps: []\n"))
	assert.Error(t, err)
}

func TestMismatch(t *testing.T) {
	ctx := context.Background()
	base := Scenario{
		Name:  "mismatch",
		Scene: scene,
		Steps: []Step{
			start("x"),
			polygonPlus(0, 0, 10, 0, 10, 10, 0, 10),
			finish("created"),
		},
		Expect: []Expected{{ID: 1, MinArea: 100, MaxArea: 100}},
	}
	_, err := Play(ctx, &base, nil, nil)
	require.NoError(t, err)

	cases := map[string]func(sc *Scenario){
		"area":    func(sc *Scenario) { sc.Expect[0].MaxArea = 99 },
		"id":      func(sc *Scenario) { sc.Expect[0].ID = 2 },
		"count":   func(sc *Scenario) { sc.Expect = nil },
		"hidden":  func(sc *Scenario) { sc.Expect[0].Hidden = true },
		"outcome": func(sc *Scenario) { sc.Steps[2].Outcome = "discarded" },
		"error":   func(sc *Scenario) { sc.Steps[1].Error = "tool-disabled" },
		"check":   func(sc *Scenario) { sc.Steps = append(sc.Steps, checkCount(5)) },
	}
	for name, modify := range cases {
		sc := base
		sc.Steps = slices.Clone(base.Steps)
		sc.Expect = slices.Clone(base.Expect)
		modify(&sc)
		_, err := Play(ctx, &sc, nil, nil)
		assert.ErrorIs(t, err, ErrMismatch, name)
	}

	sc := base
	sc.Steps = []Step{op("fly")}
	_, err = Play(ctx, &sc, nil, nil)
	assert.Error(t, err)
}
