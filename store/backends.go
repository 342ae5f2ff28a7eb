/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import (
	"sort"
	"sync"

	"github.com/suparena/entitycodec/errors"
)

// Backends manages the Openers available to a process by name
type Backends struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

// NewBackends creates an empty Backends manager
func NewBackends() *Backends {
	return &Backends{
		openers: make(map[string]Opener),
	}
}

// Register adds an opener with the given name
func (b *Backends) Register(name string, o Opener) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.openers[name]; exists {
		return errors.NewAlreadyExistsError("backend", name)
	}

	b.openers[name] = o
	return nil
}

// Get retrieves an opener by name
func (b *Backends) Get(name string) (Opener, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, exists := b.openers[name]
	if !exists {
		return nil, errors.NewNotFoundError("backend", name)
	}

	return o, nil
}

// Remove deletes an opener by name
func (b *Backends) Remove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.openers[name]; !exists {
		return errors.NewNotFoundError("backend", name)
	}

	delete(b.openers, name)
	return nil
}

// List returns all registered backend names in sorted order
func (b *Backends) List() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.openers))
	for n := range b.openers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
