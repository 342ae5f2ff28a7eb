/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package strfmtcodec stores the struct-backed go-openapi/strfmt formats.
// String-backed formats such as strfmt.UUID or strfmt.Email are plain strings
// and need no codec.
package strfmtcodec

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/entitycodec"
	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/registry"
)

const (
	TagDateTime = "strfmt.DateTime"
	TagDate     = "strfmt.Date"
)

// Unit registers the codecs when loaded.
// Its entry points are "strfmt" for tags and "github.com/go-openapi/strfmt" for types.
var Unit = &plugin.Unit{Name: "strfmt", Load: Register}

// Register adds the strfmt codecs to reg.
func Register(reg *registry.Registry) error {
	if err := entitycodec.SubscribeFunc(reg, TagDateTime, encodeDateTime, decodeDateTime); err != nil {
		return err
	}
	return entitycodec.SubscribeFunc(reg, TagDate, encodeDate, decodeDate)
}

func encodeDateTime(dt strfmt.DateTime, h *entitycodec.Handle) error {
	return h.Set(registry.ValueKey, dt.String())
}

func decodeDateTime(h *entitycodec.Handle, _ entitycodec.Kwargs) (strfmt.DateTime, error) {
	text, err := entitycodec.Get[string](h, registry.ValueKey)
	if err != nil {
		return strfmt.DateTime{}, err
	}
	return strfmt.ParseDateTime(text)
}

func encodeDate(d strfmt.Date, h *entitycodec.Handle) error {
	return h.Set(registry.ValueKey, d.String())
}

func decodeDate(h *entitycodec.Handle, _ entitycodec.Kwargs) (strfmt.Date, error) {
	var d strfmt.Date
	text, err := entitycodec.Get[string](h, registry.ValueKey)
	if err != nil {
		return d, err
	}
	err = d.UnmarshalText([]byte(text))
	return d, err
}
