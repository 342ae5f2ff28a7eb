/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package plugin

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/suparena/entitycodec/metrics"
	"github.com/suparena/entitycodec/registry"
)

// Resolver finds and loads the unit responsible for an identifier within one group.
type Resolver struct {
	source Source
	group  string
	reg    *registry.Registry
}

// NewResolver creates a Resolver that loads units of group into reg.
func NewResolver(source Source, group string, reg *registry.Registry) *Resolver {
	return &Resolver{
		source: source,
		group:  group,
		reg:    reg,
	}
}

// Prefixes returns the dotted prefixes of identifier, longest first.
// "a.b.c" yields "a.b.c", "a.b", "a".
func Prefixes(identifier string) []string {
	parts := strings.Split(identifier, ".")
	prefixes := make([]string, 0, len(parts))
	for i := len(parts); i > 0; i-- {
		prefixes = append(prefixes, strings.Join(parts[:i], "."))
	}
	return prefixes
}

// Resolve loads the unit registered for the longest matching prefix of identifier
// and returns that prefix. A unit is loaded at most once per registry, whichever
// resolver matched it first; matching it again is a no-op.
func (r *Resolver) Resolve(identifier string) (string, bool, error) {
	idx, err := r.source.Index(r.group)
	if err != nil {
		return "", false, errors.Wrapf(err, "plugin index %s", r.group)
	}

	for _, prefix := range Prefixes(identifier) {
		u, ok := idx.Lookup(prefix)
		if !ok {
			continue
		}
		return prefix, true, r.load(prefix, u)
	}

	Logger().Debug("No plugin entry", zap.String("group", r.group), zap.String("identifier", identifier))
	return "", false, nil
}

func (r *Resolver) load(prefix string, u *Unit) error {
	ran, err := r.reg.LoadUnit(u.Name, u.Load)
	if !ran {
		return nil
	}
	metrics.PluginLoadsTotal.WithLabelValues(r.group, u.Name, metrics.Status(err)).Inc()
	if err != nil {
		Logger().Warn("Plugin load failed", zap.String("group", r.group), zap.String("unit", u.Name), zap.Error(err))
		return errors.Wrapf(err, "loading plugin %s for %s", u.Name, prefix)
	}
	Logger().Debug("Loaded plugin", zap.String("group", r.group), zap.String("entry", prefix), zap.String("unit", u.Name))
	return nil
}
