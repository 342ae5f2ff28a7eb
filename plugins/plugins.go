/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package plugins installs the entry points of the bundled codec units into the
// default plugin catalog. Import it for its side effect:
//
//	import _ "github.com/suparena/entitycodec/plugins"
package plugins

import (
	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/plugins/strfmtcodec"
	"github.com/suparena/entitycodec/plugins/timecodec"
)

// Units returns the bundled units by name, for use with plugin manifests.
func Units() map[string]*plugin.Unit {
	return map[string]*plugin.Unit{
		timecodec.Unit.Name:   timecodec.Unit,
		strfmtcodec.Unit.Name: strfmtcodec.Unit,
	}
}

// DefaultManifest lists the entry points of the bundled units.
func DefaultManifest() plugin.Manifest {
	return plugin.Manifest{
		plugin.LoadGroup: {
			"time":   timecodec.Unit.Name,
			"strfmt": strfmtcodec.Unit.Name,
		},
		plugin.SaveGroup: {
			"time":                        timecodec.Unit.Name,
			"github.com/go-openapi/strfmt": strfmtcodec.Unit.Name,
		},
	}
}

// Install adds the bundled entry points to c.
func Install(c *plugin.Catalog) error {
	return DefaultManifest().Install(c, Units())
}

func init() {
	if err := Install(plugin.Default()); err != nil {
		panic(err)
	}
}
