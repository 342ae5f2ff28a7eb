/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package plugin

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/registry"
)

type countingSource struct {
	calls int
	idx   MapIndex
}

func (c *countingSource) Index(string) (Index, error) {
	c.calls++
	return c.idx, nil
}

func countingUnit(name string, loads *int) *Unit {
	return &Unit{Name: name, Load: func(*registry.Registry) error {
		*loads++
		return nil
	}}
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, []string{"a.b.c", "a.b", "a"}, Prefixes("a.b.c"))
	assert.Equal(t, []string{"single"}, Prefixes("single"))
	assert.Equal(t,
		[]string{"github.com/go-openapi/strfmt.DateTime", "github.com/go-openapi/strfmt", "github"},
		Prefixes("github.com/go-openapi/strfmt.DateTime"))
}

func TestResolve(t *testing.T) {
	t.Run("LongestPrefixWins", func(t *testing.T) {
		var short, long int
		src := &countingSource{idx: MapIndex{
			"a":   countingUnit("a", &short),
			"a.b": countingUnit("ab", &long),
		}}
		r := NewResolver(src, LoadGroup, registry.New())

		prefix, ok, err := r.Resolve("a.b.c")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a.b", prefix)
		assert.Equal(t, 1, long)
		assert.Equal(t, 0, short)
	})

	t.Run("FallsBackToShorterPrefix", func(t *testing.T) {
		var loads int
		src := &countingSource{idx: MapIndex{"a": countingUnit("a", &loads)}}
		r := NewResolver(src, LoadGroup, registry.New())

		prefix, ok, err := r.Resolve("a.x.y")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a", prefix)
	})

	t.Run("NoMatch", func(t *testing.T) {
		r := NewResolver(&countingSource{idx: MapIndex{}}, LoadGroup, registry.New())
		prefix, ok, err := r.Resolve("x.y")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, prefix)
	})

	t.Run("UnitLoadsOnce", func(t *testing.T) {
		var loads int
		u := countingUnit("a", &loads)
		src := &countingSource{idx: MapIndex{"a": u, "a.b": u}}
		r := NewResolver(src, LoadGroup, registry.New())

		for _, id := range []string{"a.x", "a.b.y", "a.z"} {
			_, ok, err := r.Resolve(id)
			require.NoError(t, err)
			assert.True(t, ok)
		}
		assert.Equal(t, 1, loads)
	})

	t.Run("UnitLoadsOncePerRegistry", func(t *testing.T) {
		var loads int
		u := countingUnit("time", &loads)
		src := &countingSource{idx: MapIndex{"time": u}}
		reg := registry.New()
		load := NewResolver(src, LoadGroup, reg)
		save := NewResolver(src, SaveGroup, reg)

		for _, r := range []*Resolver{save, load, NewResolver(src, LoadGroup, reg)} {
			_, ok, err := r.Resolve("time.Duration")
			require.NoError(t, err)
			assert.True(t, ok)
		}
		assert.Equal(t, 1, loads)

		_, _, err := NewResolver(src, LoadGroup, registry.New()).Resolve("time.Duration")
		require.NoError(t, err)
		assert.Equal(t, 2, loads, "a fresh registry loads the unit again")
	})

	t.Run("FailedLoadRetries", func(t *testing.T) {
		var calls int
		src := &countingSource{idx: MapIndex{"a": {Name: "a", Load: func(*registry.Registry) error {
			calls++
			if calls == 1 {
				return fmt.Errorf("transient")
			}
			return nil
		}}}}
		r := NewResolver(src, LoadGroup, registry.New())
		_, _, err := r.Resolve("a.b")
		require.Error(t, err)
		_, _, err = r.Resolve("a.b")
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("LoadFailure", func(t *testing.T) {
		src := &countingSource{idx: MapIndex{"a": {Name: "a", Load: func(*registry.Registry) error {
			return fmt.Errorf("boom")
		}}}}
		r := NewResolver(src, SaveGroup, registry.New())
		prefix, ok, err := r.Resolve("a.b")
		assert.Error(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a", prefix)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("UnitRegistersIntoResolverRegistry", func(t *testing.T) {
		reg := registry.New()
		src := &countingSource{idx: MapIndex{"geo": {Name: "geo", Load: func(r *registry.Registry) error {
			return r.Register(&registry.Entry{Tag: "geo.Point"})
		}}}}
		_, _, err := NewResolver(src, LoadGroup, reg).Resolve("geo.Point")
		require.NoError(t, err)
		_, ok := reg.Lookup("geo.Point")
		assert.True(t, ok)
	})
}

func TestCatalog(t *testing.T) {
	t.Run("InstallAndIndex", func(t *testing.T) {
		c := NewCatalog()
		var loads int
		require.NoError(t, c.Install(LoadGroup, "geo", countingUnit("geo", &loads)))
		require.NoError(t, c.Install(SaveGroup, "example.com/geo", countingUnit("geo", &loads)))

		idx, err := c.Index(LoadGroup)
		require.NoError(t, err)
		_, ok := idx.Lookup("geo")
		assert.True(t, ok)
		_, ok = idx.Lookup("example.com/geo")
		assert.False(t, ok)

		assert.Equal(t, []string{LoadGroup, SaveGroup}, c.Groups())
		assert.Equal(t, []string{"geo"}, c.Identifiers(LoadGroup))
	})

	t.Run("DuplicateInstall", func(t *testing.T) {
		c := NewCatalog()
		var loads int
		require.NoError(t, c.Install(LoadGroup, "geo", countingUnit("geo", &loads)))
		assert.True(t, errors.IsAlreadyExists(c.Install(LoadGroup, "geo", countingUnit("geo", &loads))))
	})

	t.Run("InvalidInstall", func(t *testing.T) {
		c := NewCatalog()
		assert.True(t, errors.IsValidationError(c.Install(LoadGroup, "", &Unit{Name: "x", Load: func(*registry.Registry) error { return nil }})))
		assert.True(t, errors.IsValidationError(c.Install(LoadGroup, "x", &Unit{Name: "x"})))
	})

	t.Run("CachedFetchesOnce", func(t *testing.T) {
		src := &countingSource{idx: MapIndex{}}
		cached := Cached(src)
		for i := 0; i < 3; i++ {
			_, err := cached.Index(LoadGroup)
			require.NoError(t, err)
		}
		_, err := cached.Index(SaveGroup)
		require.NoError(t, err)
		assert.Equal(t, 2, src.calls)
	})
}

func TestManifest(t *testing.T) {
	var loads int
	units := map[string]*Unit{"strfmt": countingUnit("strfmt", &loads)}

	t.Run("Install", func(t *testing.T) {
		m, err := ParseManifest(strings.NewReader(`
entitycodec.load:
  strfmt: strfmt
entitycodec.save:
  github.com/go-openapi/strfmt: strfmt
`))
		require.NoError(t, err)

		c := NewCatalog()
		require.NoError(t, m.Install(c, units))
		assert.Equal(t, []string{"strfmt"}, c.Identifiers(LoadGroup))
		assert.Equal(t, []string{"github.com/go-openapi/strfmt"}, c.Identifiers(SaveGroup))
	})

	t.Run("Empty", func(t *testing.T) {
		m, err := ParseManifest(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("UnknownUnit", func(t *testing.T) {
		m, err := ParseManifest(strings.NewReader("entitycodec.load:\n  geo: geo\n"))
		require.NoError(t, err)
		assert.True(t, errors.IsNotFound(m.Install(NewCatalog(), units)))
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		m, err := ParseManifest(strings.NewReader("other:\n  geo: strfmt\n"))
		require.NoError(t, err)
		assert.True(t, errors.IsValidationError(m.Install(NewCatalog(), units)))
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := ParseManifest(strings.NewReader("entitycodec.load: [1, 2"))
		assert.True(t, errors.IsValidationError(err))
	})
}
