/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/metrics"
)

// Registry maps type tags, and optionally Go types, to codec entries.
// Entries are never replaced or removed once registered.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[string]*Entry
	byType map[reflect.Type]*Entry

	// unitMu serializes LoadUnit; unit loads call Register, which takes mu.
	unitMu sync.Mutex
	units  map[string]bool
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		byTag:  make(map[string]*Entry),
		byType: make(map[reflect.Type]*Entry),
		units:  make(map[string]bool),
	}
}

// Register adds e under its primary tag and every extra tag.
// Nothing is inserted unless all of its tags, and its type, are still free.
func (r *Registry) Register(e *Entry) error {
	if e == nil || e.Tag == "" {
		return errors.NewValidationError("tag", "codec entry needs a primary tag")
	}

	tags := e.Tags()
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			return errors.NewValidationError("tag", fmt.Sprintf("empty extra tag on %q", e.Tag))
		}
		if _, dup := seen[tag]; dup {
			return errors.NewDuplicateTagError(tag)
		}
		seen[tag] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tag := range tags {
		if _, exists := r.byTag[tag]; exists {
			return errors.NewDuplicateTagError(tag)
		}
	}
	if e.Type != nil {
		if prev, exists := r.byType[e.Type]; exists {
			return errors.NewDuplicateTypeError(fmt.Sprintf("%s (tag %q)", e.Type, prev.Tag), e.Tag)
		}
		r.byType[e.Type] = e
	}
	for _, tag := range tags {
		r.byTag[tag] = e
	}

	metrics.RegisteredCodecs.Inc()
	Logger().Debug("Registered codec", zap.String("tag", e.Tag), zap.Strings("extra_tags", e.ExtraTags), zap.Stringer("type", typeName{e.Type}))
	return nil
}

// MustRegister is like Register but panics on error.
// It is meant for init() functions, where a duplicate tag is a programming error.
func (r *Registry) MustRegister(e *Entry) {
	if err := r.Register(e); err != nil {
		panic(fmt.Sprintf("type registry: %v", err))
	}
}

// Lookup returns the entry registered under tag, primary or extra.
func (r *Registry) Lookup(tag string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byTag[tag]
	return e, ok
}

// LookupType returns the entry subscribed for t.
func (r *Registry) LookupType(t reflect.Type) (*Entry, bool) {
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byType[t]
	return e, ok
}

// Tags returns every registered tag, primary and extra, in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.byTag))
	for tag := range r.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Entries returns each registered entry once, ordered by primary tag.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*Entry, 0, len(r.byTag))
	for tag, e := range r.byTag {
		if tag == e.Tag {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Tag < entries[j].Tag })
	return entries
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.Entries())
}

// LoadUnit runs load against r unless a unit of the same name already loaded
// successfully into r. It reports whether load ran.
func (r *Registry) LoadUnit(name string, load func(*Registry) error) (bool, error) {
	r.unitMu.Lock()
	defer r.unitMu.Unlock()

	if r.units[name] {
		return false, nil
	}
	if err := load(r); err != nil {
		return true, err
	}
	r.units[name] = true
	return true, nil
}

// UnitLoaded reports whether the named unit has loaded into r.
func (r *Registry) UnitLoaded(name string) bool {
	r.unitMu.Lock()
	defer r.unitMu.Unlock()
	return r.units[name]
}

type typeName struct{ t reflect.Type }

func (n typeName) String() string {
	if n.t == nil {
		return "-"
	}
	return n.t.String()
}
