/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/samber/lo"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/registry"
	"github.com/suparena/entitycodec/store"
)

// Built-in type tags.
const (
	TagNone     = "builtins.none"
	TagNumber   = "builtins.number"
	TagScalar   = "builtins.scalar"
	TagDict     = "builtins.dict"
	TagDictItem = "builtins.dict.item"
	TagList     = "builtins.list"
)

// NewRegistry returns a registry holding the built-in codecs.
func NewRegistry() *registry.Registry {
	reg := registry.New()
	reg.MustRegister(&registry.Entry{Tag: TagNone, EncodeFn: encodeNone, DecodeFn: decodeNone})
	reg.MustRegister(&registry.Entry{Tag: TagNumber, EncodeFn: encodeValue, DecodeFn: decodeValue})
	reg.MustRegister(&registry.Entry{Tag: TagScalar, EncodeFn: encodeValue, DecodeFn: decodeValue})
	reg.MustRegister(&registry.Entry{Tag: TagDict, EncodeFn: encodeDict, DecodeFn: decodeDict})
	reg.MustRegister(&registry.Entry{Tag: TagDictItem, Type: dictItemType, EncodeFn: encodeDictItem, DecodeFn: decodeDictItem})
	reg.MustRegister(&registry.Entry{Tag: TagList, EncodeFn: encodeList, DecodeFn: decodeList})
	return reg
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// DefaultRegistry returns the process-wide registry used by Subscribe and Default.
func DefaultRegistry() *registry.Registry {
	return defaultRegistry()
}

type category int

const (
	categoryNone category = iota
	categoryNumber
	categoryScalar
	categoryMapping
	categorySequence
)

func classify(t reflect.Type) category {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return categoryNumber
	case reflect.Bool, reflect.String:
		return categoryScalar
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return categoryScalar
		}
		return categorySequence
	case reflect.Array:
		return categorySequence
	case reflect.Map:
		return categoryMapping
	}
	return categoryNone
}

// toNative converts named numeric, text and byte types to the base type of their kind.
func toNative(v reflect.Value) (any, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Int:
		return int(v.Int()), true
	case reflect.Int8:
		return int8(v.Int()), true
	case reflect.Int16:
		return int16(v.Int()), true
	case reflect.Int32:
		return int32(v.Int()), true
	case reflect.Int64:
		return v.Int(), true
	case reflect.Uint:
		return uint(v.Uint()), true
	case reflect.Uint8:
		return uint8(v.Uint()), true
	case reflect.Uint16:
		return uint16(v.Uint()), true
	case reflect.Uint32:
		return uint32(v.Uint()), true
	case reflect.Uint64:
		return v.Uint(), true
	case reflect.Float32:
		return float32(v.Float()), true
	case reflect.Float64:
		return v.Float(), true
	case reflect.Complex64:
		return complex64(v.Complex()), true
	case reflect.Complex128:
		return v.Complex(), true
	case reflect.String:
		return v.String(), true
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return append([]byte{}, v.Bytes()...), true
		}
	}
	return nil, false
}

func encodeNone(registry.Walker, any, store.Group) error {
	return nil
}

func decodeNone(registry.Walker, store.Group, registry.Kwargs) (any, error) {
	return nil, nil
}

func encodeValue(_ registry.Walker, obj any, g store.Group) error {
	native, ok := toNative(reflect.ValueOf(obj))
	if !ok {
		return errors.NewSerializerNotFoundError(fmt.Sprintf("%T", obj), "")
	}
	return g.Write(registry.ValueKey, native)
}

func decodeValue(_ registry.Walker, g store.Group, _ registry.Kwargs) (any, error) {
	return g.Read(registry.ValueKey)
}

func encodeList(w registry.Walker, obj any, g store.Group) error {
	v := reflect.ValueOf(obj)
	for i := 0; i < v.Len(); i++ {
		child, err := g.CreateGroup(strconv.Itoa(i))
		if err != nil {
			return err
		}
		if err := w.Encode(v.Index(i).Interface(), child); err != nil {
			return err
		}
	}
	return nil
}

// decodeList orders children by their integer names; backends may enumerate
// them lexically, where "10" precedes "2".
func decodeList(w registry.Walker, g store.Group, _ registry.Kwargs) (any, error) {
	names := lo.Filter(g.Keys(), func(k string, _ int) bool {
		return k != registry.TypeTagKey
	})

	type element struct {
		index int
		name  string
	}
	elements := make([]element, 0, len(names))
	for _, name := range names {
		i, err := strconv.Atoi(name)
		if err != nil {
			return nil, errors.NewValidationError(store.Join(g.Name(), name), "list element name is not an integer")
		}
		elements = append(elements, element{i, name})
	}
	sort.Slice(elements, func(a, b int) bool { return elements[a].index < elements[b].index })

	out := make([]any, 0, len(elements))
	for _, el := range elements {
		child, err := g.OpenGroup(el.name)
		if err != nil {
			return nil, err
		}
		v, err := w.Decode(child)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
