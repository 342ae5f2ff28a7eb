/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec_test

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitycodec"
	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store/filestore"
)

type Waypoint struct {
	entitycodec.SimpleMapping
	Name string  `store:"name"`
	Lat  float64 `store:"lat"`
	Lon  float64 `store:"lon"`
}

// Track lays out its points itself, one numbered child group each.
type Track struct {
	Points []Waypoint
}

func (tr Track) ToStore(h *entitycodec.Handle) error {
	points, err := h.Sub("points")
	if err != nil {
		return err
	}
	for i, p := range tr.Points {
		if err := points.Encode(strconv.Itoa(i), p); err != nil {
			return err
		}
	}
	return h.Set("count", len(tr.Points))
}

func (tr *Track) FromStore(h *entitycodec.Handle, _ entitycodec.Kwargs) error {
	n, err := entitycodec.Get[int](h, "count")
	if err != nil {
		return err
	}
	points, err := h.Open("points")
	if err != nil {
		return err
	}
	tr.Points = make([]Waypoint, n)
	for i := range tr.Points {
		v, err := points.Decode(strconv.Itoa(i))
		if err != nil {
			return err
		}
		tr.Points[i] = *v.(*Waypoint)
	}
	return nil
}

func init() {
	entitycodec.MustSubscribe[Waypoint]("test.waypoint")
	entitycodec.MustSubscribe[Track]("test.track")
}

func TestSaveLoad(t *testing.T) {
	e := newTestEngine(t, entitycodec.WithOpener(filestore.Opener{}))
	path := filepath.Join(t.TempDir(), "value.ec")

	in := map[string]any{
		"list":    []any{int32(1), "two", 3.0, nil},
		"complex": complex(0, 1),
		"simple":  SimpleClass{X: 8},
		"keys":    map[any]any{1: "one", "#": "hash"},
	}
	require.NoError(t, e.Save(in, path))

	out, err := e.Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"list":    []any{int32(1), "two", 3.0, nil},
		"complex": complex(0, 1),
		"simple":  &SimpleClass{X: 8},
		"keys":    map[any]any{1: "one", "#": "hash"},
	}, out)

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, e.Save("replaced", path))
		out, err := e.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "replaced", out)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := e.Load(filepath.Join(t.TempDir(), "missing.ec"))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		err := e.Save([]any{func() {}}, filepath.Join(t.TempDir(), "bad.ec"))
		assert.True(t, errors.IsTypeError(err))
	})
}

func TestDefaultEngine(t *testing.T) {
	dir := t.TempDir()
	track := Track{Points: []Waypoint{
		{Name: "start", Lat: 47.37, Lon: 8.54},
		{Name: "end", Lat: 46.95, Lon: 7.44},
	}}

	path := filepath.Join(dir, "track.ec")
	require.NoError(t, entitycodec.SaveFile(track, path))

	v, err := entitycodec.Load(path)
	require.NoError(t, err)
	assert.Equal(t, &track, v)

	got, err := entitycodec.LoadAs[Track](nil, path, nil)
	require.NoError(t, err)
	assert.Equal(t, track, *got)

	_, err = entitycodec.LoadAs[Waypoint](nil, path, nil)
	assert.True(t, errors.IsTagMismatch(err))

	wp := filepath.Join(dir, "waypoint.ec")
	require.NoError(t, entitycodec.Save(&track.Points[0], wp))
	got2, err := entitycodec.LoadAs[Waypoint](nil, wp, nil)
	require.NoError(t, err)
	assert.Equal(t, track.Points[0], *got2)
}
