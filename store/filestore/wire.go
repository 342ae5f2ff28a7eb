/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filestore

import (
	"fmt"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
	"github.com/suparena/entitycodec/store/memstore"
)

// wireNode is a group when Children is non-nil, otherwise a scalar of Kind.
// Numeric payloads are split by family so every kind keeps its width.
type wireNode struct {
	Kind     string               `cbor:"k,omitempty"`
	Int      int64                `cbor:"i,omitempty"`
	Uint     uint64               `cbor:"u,omitempty"`
	Float    float64              `cbor:"f"`
	Imag     float64              `cbor:"j"`
	Str      string               `cbor:"s,omitempty"`
	Bytes    []byte               `cbor:"b,omitempty"`
	Bool     bool                 `cbor:"t,omitempty"`
	Children map[string]*wireNode `cbor:"c,omitempty"`
	Group    bool                 `cbor:"g,omitempty"`
}

func toWire(n *memstore.Node) (*wireNode, error) {
	if n.IsGroup() {
		w := &wireNode{Group: true, Children: make(map[string]*wireNode)}
		for _, name := range n.Children() {
			child, _ := n.Child(name)
			cw, err := toWire(child)
			if err != nil {
				return nil, err
			}
			w.Children[name] = cw
		}
		return w, nil
	}

	v := n.Value()
	kind, ok := store.KindOf(v)
	if !ok {
		return nil, errors.NewValidationError("value", fmt.Sprintf("unsupported scalar type %T", v))
	}
	w := &wireNode{Kind: kind.String()}
	switch x := v.(type) {
	case bool:
		w.Bool = x
	case int:
		w.Int = int64(x)
	case int8:
		w.Int = int64(x)
	case int16:
		w.Int = int64(x)
	case int32:
		w.Int = int64(x)
	case int64:
		w.Int = x
	case uint:
		w.Uint = uint64(x)
	case uint8:
		w.Uint = uint64(x)
	case uint16:
		w.Uint = uint64(x)
	case uint32:
		w.Uint = uint64(x)
	case uint64:
		w.Uint = x
	case float32:
		w.Float = float64(x)
	case float64:
		w.Float = x
	case complex64:
		w.Float, w.Imag = float64(real(x)), float64(imag(x))
	case complex128:
		w.Float, w.Imag = real(x), imag(x)
	case string:
		w.Str = x
	case []byte:
		w.Bytes = append([]byte{}, x...)
	}
	return w, nil
}

func fromWire(w *wireNode) (*memstore.Node, error) {
	if w.Group {
		n := memstore.NewGroupNode()
		for name, cw := range w.Children {
			child, err := fromWire(cw)
			if err != nil {
				return nil, err
			}
			n.Set(name, child)
		}
		return n, nil
	}

	kind, ok := store.ParseKind(w.Kind)
	if !ok {
		return nil, errors.NewValidationError("kind", fmt.Sprintf("unknown scalar kind %q", w.Kind))
	}
	var v any
	switch kind {
	case store.Bool:
		v = w.Bool
	case store.Int:
		v = int(w.Int)
	case store.Int8:
		v = int8(w.Int)
	case store.Int16:
		v = int16(w.Int)
	case store.Int32:
		v = int32(w.Int)
	case store.Int64:
		v = w.Int
	case store.Uint:
		v = uint(w.Uint)
	case store.Uint8:
		v = uint8(w.Uint)
	case store.Uint16:
		v = uint16(w.Uint)
	case store.Uint32:
		v = uint32(w.Uint)
	case store.Uint64:
		v = w.Uint
	case store.Float32:
		v = float32(w.Float)
	case store.Float64:
		v = w.Float
	case store.Complex64:
		v = complex(float32(w.Float), float32(w.Imag))
	case store.Complex128:
		v = complex(w.Float, w.Imag)
	case store.String:
		v = w.Str
	case store.Bytes:
		v = w.Bytes
		if w.Bytes == nil {
			v = []byte{}
		}
	}
	return memstore.NewScalarNode(v), nil
}
