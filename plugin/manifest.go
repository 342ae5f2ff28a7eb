/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package plugin

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/suparena/entitycodec/errors"
)

// Manifest maps group names to identifiers to unit names:
//
//	entitycodec.load:
//	  strfmt: strfmt
//	entitycodec.save:
//	  github.com/go-openapi/strfmt: strfmt
type Manifest map[string]map[string]string

// ParseManifest decodes a YAML manifest.
func ParseManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if err == io.EOF {
			return Manifest{}, nil
		}
		return nil, errors.NewValidationError("manifest", err.Error())
	}
	return m, nil
}

// LoadManifest reads a manifest file
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseManifest(f)
}

// Install adds every entry point of the manifest to c, resolving unit names in units.
func (m Manifest) Install(c *Catalog, units map[string]*Unit) error {
	groups := make([]string, 0, len(m))
	for g := range m {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, group := range groups {
		if group != LoadGroup && group != SaveGroup {
			return errors.NewValidationError("manifest", fmt.Sprintf("unknown group %q", group))
		}
		ids := make([]string, 0, len(m[group]))
		for id := range m[group] {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			name := m[group][id]
			u, ok := units[name]
			if !ok {
				return errors.NewNotFoundError("plugin unit", name)
			}
			if err := c.Install(group, id, u); err != nil {
				return err
			}
		}
	}
	return nil
}
