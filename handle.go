/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"github.com/mitchellh/mapstructure"

	"github.com/suparena/entitycodec/registry"
	"github.com/suparena/entitycodec/store"
)

// Handle is the view of a group given to codecs. Besides the raw store.Group
// methods it reads and writes nested values through the engine.
type Handle struct {
	store.Group
	w registry.Walker
}

// NewHandle wraps g for codecs driven by w.
func NewHandle(w registry.Walker, g store.Group) *Handle {
	return &Handle{Group: g, w: w}
}

// Set stores v under key: natively if it is a scalar the store understands,
// otherwise as a child group holding the encoded value.
func (h *Handle) Set(key string, v any) error {
	if store.IsNative(v) {
		return h.Group.Write(key, v)
	}
	return h.Encode(key, v)
}

// Get returns the scalar under key, or the decoded value of the child group.
func (h *Handle) Get(key string) (any, error) {
	if h.Group.IsGroup(key) {
		return h.Decode(key)
	}
	return h.Group.Read(key)
}

// Encode always writes v as a child group.
func (h *Handle) Encode(key string, v any) error {
	sub, err := h.Group.CreateGroup(key)
	if err != nil {
		return err
	}
	return h.w.Encode(v, sub)
}

// Decode decodes the child group key.
func (h *Handle) Decode(key string) (any, error) {
	sub, err := h.Group.OpenGroup(key)
	if err != nil {
		return nil, err
	}
	return h.w.Decode(sub)
}

// Sub creates a child group and returns a handle for it, for codecs that lay out
// nested groups themselves.
func (h *Handle) Sub(name string) (*Handle, error) {
	sub, err := h.Group.CreateGroup(name)
	if err != nil {
		return nil, err
	}
	return NewHandle(h.w, sub), nil
}

// Open returns a handle for an existing child group.
func (h *Handle) Open(name string) (*Handle, error) {
	sub, err := h.Group.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	return NewHandle(h.w, sub), nil
}

// Get reads key from h and converts the result to T.
// Stored int64 values convert to int fields, []any to typed slices, and so on.
func Get[T any](h *Handle, key string) (T, error) {
	var out T
	v, err := h.Get(key)
	if err != nil {
		return out, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	err = assign(&out, v)
	return out, err
}

func assign(out, in any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: mappingTagName,
		Squash:  true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
