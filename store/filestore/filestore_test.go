/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filestore

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
)

func TestRoundTripEveryKind(t *testing.T) {
	values := map[string]any{
		"bool":       true,
		"int":        -7,
		"int8":       int8(-8),
		"int16":      int16(-16),
		"int32":      int32(-32),
		"int64":      int64(math.MinInt64),
		"uint":       uint(7),
		"uint8":      uint8(255),
		"uint16":     uint16(65535),
		"uint32":     uint32(1 << 31),
		"uint64":     uint64(math.MaxUint64),
		"float32":    float32(1.5),
		"float64":    math.Pi,
		"negzero":    math.Copysign(0, -1),
		"inf":        math.Inf(-1),
		"complex64":  complex64(complex(1, -2)),
		"complex128": complex(math.E, math.Pi),
		"string":     "héllo",
		"empty":      "",
		"bytes":      []byte{0, 1, 2, 255},
		"nobytes":    []byte{},
	}

	path := filepath.Join(t.TempDir(), "kinds.ec")
	f, err := Create(path)
	require.NoError(t, err)
	root := f.Root()
	for k, v := range values {
		require.NoError(t, root.Write(k, v), k)
	}
	sub, err := root.CreateGroup("nested")
	require.NoError(t, err)
	_, err = sub.CreateGroup("empty")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got := r.Root()
	for k, want := range values {
		v, err := got.Read(k)
		require.NoError(t, err, k)
		assert.Equal(t, want, v, k)
	}
	neg, _ := got.Read("negzero")
	assert.True(t, math.Signbit(neg.(float64)), "negative zero keeps its sign")

	nested, err := got.OpenGroup("nested")
	require.NoError(t, err)
	assert.True(t, nested.IsGroup("empty"))
	assert.Equal(t, "/nested", nested.Name())

	assert.True(t, errors.IsReadOnly(got.Write("more", 1)))
}

func TestCreateTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trunc.ec")
	var opener store.Opener = Opener{}

	f, err := opener.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Root().Write("x", 1))
	require.NoError(t, f.Close())

	f, err = opener.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "Close is idempotent")

	r, err := opener.Open(path)
	require.NoError(t, err)
	assert.Empty(t, r.Root().Keys())
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.ec"))
	assert.True(t, errors.IsNotFound(err))

	garbage := filepath.Join(dir, "garbage.ec")
	require.NoError(t, os.WriteFile(garbage, []byte("not cbor at all"), 0o644))
	_, err = Open(garbage)
	assert.True(t, errors.IsValidationError(err))

	for name, doc := range map[string]document{
		"format":  {Format: "other", Version: "1.0.0", Root: &wireNode{Group: true}},
		"version": {Format: Format, Version: "2.0.0", Root: &wireNode{Group: true}},
		"root":    {Format: Format, Version: "1.0.0"},
	} {
		data, err := cbor.Marshal(doc)
		require.NoError(t, err)
		p := filepath.Join(dir, name+".ec")
		require.NoError(t, os.WriteFile(p, data, 0o644))

		_, err = Open(p)
		assert.True(t, errors.IsValidationError(err), name)
	}
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion("1.0.0"))
	assert.NoError(t, CheckVersion("1.4.2"))
	assert.Error(t, CheckVersion("0.9.0"))
	assert.Error(t, CheckVersion("2.0.0"))
	assert.Error(t, CheckVersion("one"))
}
