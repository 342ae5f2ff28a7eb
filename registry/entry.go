/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
)

// Reserved keys of every group written by the engine.
const (
	TypeTagKey = "type_tag"
	ValueKey   = "value"
)

// Kwargs carries caller-supplied context into decoders. It is never stored.
type Kwargs map[string]any

// Walker recurses into nested values. The engine implements it and hands
// itself to codecs so they can encode and decode children.
type Walker interface {
	Encode(obj any, g store.Group) error
	Decode(g store.Group) (any, error)
}

// EncodeFunc writes the body of obj into g. The type tag is already written.
type EncodeFunc func(w Walker, obj any, g store.Group) error

// DecodeFunc rebuilds a value from g.
type DecodeFunc func(w Walker, g store.Group, kw Kwargs) (any, error)

// Entry is one registered codec.
type Entry struct {
	// Tag is written on encode and accepted on decode.
	Tag string
	// ExtraTags are legacy names accepted on decode only.
	ExtraTags []string
	// Type, if set, routes encoding of values of this type to the entry.
	Type reflect.Type
	// NoTagCheck accepts groups with any or no type tag on decode.
	NoTagCheck bool

	EncodeFn EncodeFunc
	DecodeFn DecodeFunc
}

// Tags returns the primary tag followed by the extra tags.
func (e *Entry) Tags() []string {
	return append([]string{e.Tag}, e.ExtraTags...)
}

// Accepts reports whether tag names this entry.
func (e *Entry) Accepts(tag string) bool {
	if tag == e.Tag {
		return true
	}
	for _, t := range e.ExtraTags {
		if t == tag {
			return true
		}
	}
	return false
}

// CanEncode reports whether the entry has an encoder.
func (e *Entry) CanEncode() bool {
	return e.EncodeFn != nil
}

// Encode writes the primary tag into g and then the body of obj.
func (e *Entry) Encode(w Walker, obj any, g store.Group) error {
	if e.EncodeFn == nil {
		return errors.NewValidationError(g.Name(), fmt.Sprintf("codec %q cannot encode", e.Tag))
	}
	if err := g.Write(TypeTagKey, e.Tag); err != nil {
		return err
	}
	return e.EncodeFn(w, obj, g)
}

// Decode verifies the stored tag, unless tag checking is disabled, and rebuilds the value.
func (e *Entry) Decode(w Walker, g store.Group, kw Kwargs) (any, error) {
	if e.DecodeFn == nil {
		return nil, errors.NewValidationError(g.Name(), fmt.Sprintf("codec %q cannot decode", e.Tag))
	}
	if !e.NoTagCheck {
		tag, ok, err := ReadTag(g)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.NewMissingTypeTagError(g.Name())
		}
		if !e.Accepts(tag) {
			return nil, errors.NewTagMismatchError(g.Name(), tag, e.Tags())
		}
	}
	return e.DecodeFn(w, g, kw)
}

// ReadTag returns the type tag of g. Tags stored as bytes are read as UTF-8.
func ReadTag(g store.Group) (string, bool, error) {
	if !g.Has(TypeTagKey) {
		return "", false, nil
	}
	v, err := g.Read(TypeTagKey)
	if err != nil {
		return "", false, err
	}
	switch tag := v.(type) {
	case string:
		return tag, true, nil
	case []byte:
		return string(tag), true, nil
	}
	return "", false, errors.NewValidationError(store.Join(g.Name(), TypeTagKey), fmt.Sprintf("expected a string, got %T", v))
}
