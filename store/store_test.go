/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitycodec/errors"
)

type nopOpener struct{ name string }

func (nopOpener) Create(string) (File, error) { return nil, nil }
func (nopOpener) Open(string) (File, error)   { return nil, nil }

func TestBackends(t *testing.T) {
	t.Run("BasicOperations", func(t *testing.T) {
		b := NewBackends()
		require.NoError(t, b.Register("file", nopOpener{"file"}))
		require.NoError(t, b.Register("ddb", nopOpener{"ddb"}))

		o, err := b.Get("file")
		require.NoError(t, err)
		assert.Equal(t, nopOpener{"file"}, o)
		assert.Equal(t, []string{"ddb", "file"}, b.List())

		require.NoError(t, b.Remove("ddb"))
		assert.Equal(t, []string{"file"}, b.List())
	})

	t.Run("Errors", func(t *testing.T) {
		b := NewBackends()
		require.NoError(t, b.Register("file", nopOpener{}))

		assert.True(t, errors.IsAlreadyExists(b.Register("file", nopOpener{})))
		_, err := b.Get("mem")
		assert.True(t, errors.IsNotFound(err))
		assert.True(t, errors.IsNotFound(b.Remove("mem")))
	})
}

func TestKinds(t *testing.T) {
	values := map[Kind]any{
		Bool:       true,
		Int:        1,
		Int8:       int8(1),
		Int16:      int16(1),
		Int32:      int32(1),
		Int64:      int64(1),
		Uint:       uint(1),
		Uint8:      uint8(1),
		Uint16:     uint16(1),
		Uint32:     uint32(1),
		Uint64:     uint64(1),
		Float32:    float32(1),
		Float64:    1.0,
		Complex64:  complex64(1i),
		Complex128: 1i,
		String:     "s",
		Bytes:      []byte("b"),
	}
	for want, v := range values {
		got, ok := KindOf(v)
		assert.True(t, ok, "%T should be native", v)
		assert.Equal(t, want, got)

		parsed, ok := ParseKind(want.String())
		assert.True(t, ok)
		assert.Equal(t, want, parsed)
	}

	type celsius float64
	assert.False(t, IsNative(celsius(1)))
	assert.False(t, IsNative(nil))
	assert.False(t, IsNative([]int{1}))

	_, ok := ParseKind("invalid")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.True(t, ValidName("value"))
	assert.True(t, ValidName("#0"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("."))
	assert.False(t, ValidName(".."))
	assert.False(t, ValidName("a/b"))

	assert.Equal(t, "/value", Join("/", "value"))
	assert.Equal(t, "/value/a", Join("/value", "a"))
}
