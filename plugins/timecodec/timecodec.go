/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package timecodec stores time.Time values as RFC 3339 text with nanoseconds.
package timecodec

import (
	"time"

	"github.com/suparena/entitycodec"
	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/registry"
)

// TagTime is the type tag of time.Time values.
const TagTime = "time.Time"

// Unit registers the codec when loaded. Its entry points are "time" in both groups.
var Unit = &plugin.Unit{Name: "time", Load: Register}

// Register adds the time.Time codec to reg.
func Register(reg *registry.Registry) error {
	return entitycodec.SubscribeFunc(reg, TagTime, encodeTime, decodeTime)
}

func encodeTime(t time.Time, h *entitycodec.Handle) error {
	text, err := t.MarshalText()
	if err != nil {
		return err
	}
	return h.Set(registry.ValueKey, string(text))
}

func decodeTime(h *entitycodec.Handle, _ entitycodec.Kwargs) (time.Time, error) {
	var t time.Time
	text, err := entitycodec.Get[string](h, registry.ValueKey)
	if err != nil {
		return t, err
	}
	err = t.UnmarshalText([]byte(text))
	return t, err
}
