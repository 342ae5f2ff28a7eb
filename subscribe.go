/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"fmt"
	"reflect"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/registry"
	"github.com/suparena/entitycodec/store"
)

type subscribeConfig struct {
	extraTags  []string
	noTagCheck bool
}

// SubscribeOption configures a subscription
type SubscribeOption func(*subscribeConfig)

// WithExtraTags accepts the given legacy tags on decode. They are never written.
func WithExtraTags(tags ...string) SubscribeOption {
	return func(c *subscribeConfig) {
		c.extraTags = append(c.extraTags, tags...)
	}
}

// WithoutTagCheck decodes groups without verifying, or requiring, their type tag.
// It is meant for data written before the type had a tag.
func WithoutTagCheck() SubscribeOption {
	return func(c *subscribeConfig) {
		c.noTagCheck = true
	}
}

// Subscribe registers T under tag in the default registry.
//
// T must be a struct type whose *T implements Serializable and/or Deserializable,
// or which embeds SimpleMapping. Decoding a group written for T yields a *T.
func Subscribe[T any](tag string, opts ...SubscribeOption) error {
	return SubscribeTo[T](DefaultRegistry(), tag, opts...)
}

// MustSubscribe is like Subscribe but panics on error, for use in init functions.
func MustSubscribe[T any](tag string, opts ...SubscribeOption) {
	if err := Subscribe[T](tag, opts...); err != nil {
		panic(fmt.Sprintf("entitycodec: %v", err))
	}
}

// SubscribeTo registers T under tag in reg.
func SubscribeTo[T any](reg *registry.Registry, tag string, opts ...SubscribeOption) error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return errors.NewValidationError(tag, fmt.Sprintf("subscribe the element type, not %s", t))
	}

	cfg := &subscribeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	entry := &registry.Entry{
		Tag:        tag,
		ExtraTags:  cfg.extraTags,
		Type:       t,
		NoTagCheck: cfg.noTagCheck,
	}

	ptr := reflect.PointerTo(t)
	custom := ptr.Implements(serializableType) && ptr.Implements(deserializableType)
	if isMapping(t) && !custom {
		// A bad layout fails here, before its tag could be written to any group.
		if _, err := attributesOf(t); err != nil {
			return err
		}
		entry.EncodeFn = encodeMapping
		entry.DecodeFn = decodeMapping(t)
	}
	if ptr.Implements(serializableType) {
		entry.EncodeFn = encodeSerializable(t)
	}
	if ptr.Implements(deserializableType) {
		entry.DecodeFn = decodeDeserializable(t)
	}
	if entry.EncodeFn == nil && entry.DecodeFn == nil {
		return errors.NewValidationError(tag, fmt.Sprintf("%s implements neither Serializable nor Deserializable", t))
	}
	return reg.Register(entry)
}

// SubscribeFunc registers codec functions for a type that cannot carry methods,
// such as a type from another package. Decoding yields a T.
// Either function may be nil for a one-directional codec.
func SubscribeFunc[T any](reg *registry.Registry, tag string, encode func(v T, h *Handle) error, decode func(h *Handle, kw Kwargs) (T, error), opts ...SubscribeOption) error {
	if reg == nil {
		reg = DefaultRegistry()
	}
	cfg := &subscribeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	entry := &registry.Entry{
		Tag:        tag,
		ExtraTags:  cfg.extraTags,
		Type:       reflect.TypeFor[T](),
		NoTagCheck: cfg.noTagCheck,
	}
	if encode != nil {
		entry.EncodeFn = func(w registry.Walker, obj any, g store.Group) error {
			v, ok := obj.(T)
			if !ok {
				p, isPtr := obj.(*T)
				if !isPtr {
					return errors.NewSerializerNotFoundError(fmt.Sprintf("%T", obj), "")
				}
				v = *p
			}
			return encode(v, NewHandle(w, g))
		}
	}
	if decode != nil {
		entry.DecodeFn = func(w registry.Walker, g store.Group, kw registry.Kwargs) (any, error) {
			return decode(NewHandle(w, g), kw)
		}
	}
	if entry.EncodeFn == nil && entry.DecodeFn == nil {
		return errors.NewValidationError(tag, "codec needs an encode or a decode function")
	}
	return reg.Register(entry)
}

func encodeSerializable(t reflect.Type) registry.EncodeFunc {
	return func(w registry.Walker, obj any, g store.Group) error {
		s, ok := obj.(Serializable)
		if !ok {
			p := reflect.New(t)
			p.Elem().Set(reflect.ValueOf(obj))
			s = p.Interface().(Serializable)
		}
		return s.ToStore(NewHandle(w, g))
	}
}

func decodeDeserializable(t reflect.Type) registry.DecodeFunc {
	return func(w registry.Walker, g store.Group, kw registry.Kwargs) (any, error) {
		p := reflect.New(t)
		if err := p.Interface().(Deserializable).FromStore(NewHandle(w, g), kw); err != nil {
			return nil, err
		}
		return p.Interface(), nil
	}
}
