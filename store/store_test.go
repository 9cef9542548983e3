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
	"context"
	"encoding/json"
	"image"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/region"
)

var scene = annotation.Scene{Width: 64, Height: 48, Frames: 6}

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleManager(t *testing.T) *annotation.Manager {
	t.Helper()
	m := annotation.NewManager(scene, nil)
	stroke := region.FromBrushStroke(
		[]vec.Vec2{{X: 5, Y: 5}, {X: 30, Y: 20}, {X: 50, Y: 8}},
		7, graphics.LineCapRound, scene.Bounds())
	_, err := m.Commit(annotation.Commit{Frame: 1, Label: "road", Region: stroke})
	require.NoError(t, err)
	_, err = m.Commit(annotation.Commit{Frame: 1, Label: "car", Region: region.Rect(image.Rect(40, 30, 60, 45))})
	require.NoError(t, err)
	_, err = m.Propagate(2, nil)
	require.NoError(t, err)
	require.NoError(t, m.SetVisible(1, false))
	require.NoError(t, m.SetOpacity(0.45))
	return m
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	m := sampleManager(t)
	snap := m.Snapshot()

	require.NoError(t, s.Save(ctx, "job1", snap))
	got, err := s.Load(ctx, "job1")
	require.NoError(t, err)

	assert.Equal(t, snap.Scene, got.Scene)
	assert.Equal(t, snap.NextID, got.NextID)
	assert.Equal(t, snap.Appearance, got.Appearance)
	require.Len(t, got.Objects, len(snap.Objects))
	for i, want := range snap.Objects {
		obj := got.Objects[i]
		assert.Equal(t, want.ID, obj.ID)
		assert.Equal(t, want.Frame, obj.Frame)
		assert.Equal(t, want.Label, obj.Label)
		assert.Equal(t, want.Visible, obj.Visible)
		assert.Equal(t, want.LinkedGroup, obj.LinkedGroup)
		assert.Equal(t, want.Source, obj.Source)
		assert.True(t, want.Region.Equal(obj.Region), "object %d changed pixels", want.ID)
	}

	m2 := annotation.NewManager(annotation.Scene{Width: 1, Height: 1, Frames: 1}, nil)
	require.NoError(t, m2.Restore(got))
	assert.Equal(t, m.All(), m2.All())
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	m := sampleManager(t)
	require.NoError(t, s.Save(ctx, "job", m.Snapshot()))

	require.NoError(t, m.Remove(3))
	require.NoError(t, s.Save(ctx, "job", m.Snapshot()))

	got, err := s.Load(ctx, "job")
	require.NoError(t, err)
	assert.Len(t, got.Objects, m.Len())
	for _, obj := range got.Objects {
		assert.NotEqual(t, 3, obj.ID)
	}
}

func TestJobs(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	snap := sampleManager(t).Snapshot()

	for _, job := range []string{"b", "a", "c"} {
		require.NoError(t, s.Save(ctx, job, snap))
	}
	jobs, err := s.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, jobs)

	require.NoError(t, s.Delete(ctx, "b"))
	jobs, err = s.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, jobs)
	_, err = s.Load(ctx, "b")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = s.Load(ctx, "a/b")
	assert.Error(t, err)
	assert.Error(t, s.Save(ctx, "", annotation.Snapshot{}))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Save(cancelled, "job", annotation.Snapshot{}), context.Canceled)

	// a record with a broken mask encoding
	require.NoError(t, s.Save(ctx, "bad", sampleManager(t).Snapshot()))
	err = s.db.Update(func(txn *badger.Txn) error {
		data, _ := json.Marshal(Record{ID: 1, RLE: []int{1, 2, 3}})
		return txn.Set(objectKey("bad", 1), data)
	})
	require.NoError(t, err)
	_, err = s.Load(ctx, "bad")
	assert.ErrorIs(t, err, ErrCorrupt)

	// a mask box far outside the scene is rejected before decoding
	err = s.db.Update(func(txn *badger.Txn) error {
		data, _ := json.Marshal(Record{ID: 1, RLE: []int{0, 1_000_000_000, 0, 0, 0, 999_999_999}})
		return txn.Set(objectKey("bad", 1), data)
	})
	require.NoError(t, err)
	_, err = s.Load(ctx, "bad")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRecordFormat(t *testing.T) {
	group := uuid.MustParse("9b2f1c1e-3d4a-4b7e-8f00-0123456789ab")
	obj := annotation.MaskObject{
		ID:          7,
		Frame:       3,
		Label:       "car",
		Region:      region.Rect(image.Rect(1, 2, 3, 4)),
		Visible:     true,
		LinkedGroup: group,
		Source:      annotation.SourcePropagation,
	}
	data, err := json.Marshal(NewRecord(obj))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7, "frame": 3, "label": "car",
		"rle": [0, 4, 1, 2, 2, 3],
		"linked_group": "9b2f1c1e-3d4a-4b7e-8f00-0123456789ab",
		"visible": true, "source": "propagation"
	}`, string(data))

	obj.LinkedGroup = uuid.Nil
	data, err = json.Marshal(NewRecord(obj))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "linked_group")
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	snap := sampleManager(t).Snapshot()

	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "job", snap))
	require.NoError(t, s.Close())

	s, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx, "job")
	require.NoError(t, err)
	assert.Len(t, got.Objects, len(snap.Objects))
}
