/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package plugin

import (
	"sort"
	"sync"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/registry"
)

// Plugin index names.
const (
	// LoadGroup is keyed by type tag.
	LoadGroup = "entitycodec.load"
	// SaveGroup is keyed by fully-qualified Go type name.
	SaveGroup = "entitycodec.save"
)

// Unit is a loadable piece of codec support. Loading registers its codecs.
type Unit struct {
	Name string
	Load func(reg *registry.Registry) error
}

// Index is one named table of entry points.
type Index interface {
	Lookup(identifier string) (*Unit, bool)
}

// Source hands out indexes by group name.
type Source interface {
	Index(group string) (Index, error)
}

// MapIndex is an Index backed by a map
type MapIndex map[string]*Unit

func (m MapIndex) Lookup(identifier string) (*Unit, bool) {
	u, ok := m[identifier]
	return u, ok
}

// Catalog holds the entry points installed in a process.
type Catalog struct {
	mu     sync.RWMutex
	groups map[string]MapIndex
}

// NewCatalog creates an empty Catalog
func NewCatalog() *Catalog {
	return &Catalog{
		groups: make(map[string]MapIndex),
	}
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog
func Default() *Catalog {
	return defaultCatalog
}

// Install adds an entry point mapping identifier to u within group.
func (c *Catalog) Install(group, identifier string, u *Unit) error {
	if identifier == "" || u == nil || u.Load == nil {
		return errors.NewValidationError(group, "entry point needs an identifier and a loadable unit")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.groups[group]
	if !ok {
		idx = make(MapIndex)
		c.groups[group] = idx
	}
	if _, exists := idx[identifier]; exists {
		return errors.NewAlreadyExistsError("entry point in "+group, identifier)
	}
	idx[identifier] = u
	return nil
}

// Index returns a snapshot of the entry points of group.
func (c *Catalog) Index(group string) (Index, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(MapIndex, len(c.groups[group]))
	for k, u := range c.groups[group] {
		snapshot[k] = u
	}
	return snapshot, nil
}

// Identifiers lists the identifiers installed in group.
func (c *Catalog) Identifiers(group string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.groups[group]))
	for id := range c.groups[group] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Groups lists the group names with at least one entry point.
func (c *Catalog) Groups() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type cachedSource struct {
	src     Source
	mu      sync.Mutex
	indexes map[string]Index
}

// Cached wraps src so each group is fetched once and reused afterwards.
func Cached(src Source) Source {
	return &cachedSource{src: src, indexes: make(map[string]Index)}
}

func (c *cachedSource) Index(group string) (Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx, ok := c.indexes[group]; ok {
		return idx, nil
	}
	idx, err := c.src.Index(group)
	if err != nil {
		return nil, err
	}
	c.indexes[group] = idx
	return idx, nil
}
