/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
)

// Save writes obj to a new store at path, replacing any existing store.
// The store is closed on every exit path.
func (e *Engine) Save(obj any, path string) (err error) {
	f, err := e.opener.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	e.log.Debug("Saving", zap.String("path", path), zap.String("type", qualifiedName(reflect.TypeOf(obj))))
	return e.Encode(obj, f.Root())
}

// Load reads the value stored at path.
func (e *Engine) Load(path string) (any, error) {
	return e.withFile(path, func(root store.Group) (any, error) {
		return e.Decode(root)
	})
}

func (e *Engine) withFile(path string, fn func(root store.Group) (any, error)) (v any, err error) {
	f, err := e.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	e.log.Debug("Loading", zap.String("path", path))
	return fn(f.Root())
}

// Save writes obj to path with the default engine.
func Save(obj any, path string) error {
	return Default().Save(obj, path)
}

// Load reads path with the default engine.
func Load(path string) (any, error) {
	return Default().Load(path)
}

// ToStore encodes obj into an open group with the default engine.
func ToStore(obj any, g store.Group) error {
	return Default().Encode(obj, g)
}

// FromStore decodes an open group with the default engine.
func FromStore(g store.Group) (any, error) {
	return Default().Decode(g)
}

// SaveFile writes a Serializable value to path with the default engine.
func SaveFile(s Serializable, path string) error {
	return Default().Save(s, path)
}

// DecodeAs decodes g as a *T, passing kw to its decoder. If T is subscribed, the
// stored tag is checked against T's tags; a group written for another type fails
// with a TagMismatchError. A nil engine means Default().
func DecodeAs[T any](e *Engine, g store.Group, kw Kwargs) (*T, error) {
	if e == nil {
		e = Default()
	}
	v, err := e.DecodeType(reflect.TypeFor[T](), g, kw)
	if err != nil {
		return nil, err
	}
	return asPointer[T](g, v)
}

// LoadAs reads path like Load and returns the value as a *T, like DecodeAs.
func LoadAs[T any](e *Engine, path string, kw Kwargs) (*T, error) {
	if e == nil {
		e = Default()
	}
	v, err := e.withFile(path, func(root store.Group) (any, error) {
		return e.DecodeType(reflect.TypeFor[T](), root, kw)
	})
	if err != nil {
		return nil, err
	}
	return asPointer[T](nil, v)
}

func asPointer[T any](g store.Group, v any) (*T, error) {
	switch t := v.(type) {
	case *T:
		return t, nil
	case T:
		return &t, nil
	}
	path := "/"
	if g != nil {
		path = g.Name()
	}
	return nil, errors.NewValidationError(path, "decoded value has the wrong type")
}
