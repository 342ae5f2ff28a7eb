/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/registry"
	"github.com/suparena/entitycodec/store"
)

// Mapping entries whose key is a plain string are stored as a child group named
// after the key. Every other key is stored as child "#<n>", a dict item group
// holding "key" and "value" sub-groups.
const keyedPrefix = "#"

// dictItem is one keyed mapping entry.
type dictItem struct {
	Key   any
	Value any
}

var dictItemType = reflect.TypeFor[dictItem]()

// plainKey reports whether k can be used verbatim as a child name.
func plainKey(k string) bool {
	return store.ValidName(k) && !strings.HasPrefix(k, keyedPrefix)
}

type entry struct {
	key   any
	value any
}

func encodeDict(w registry.Walker, obj any, g store.Group) error {
	v := reflect.ValueOf(obj)
	sub, err := g.CreateGroup(registry.ValueKey)
	if err != nil {
		return err
	}

	plain := make(map[string]any)
	var keyed []entry
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			if k.IsNil() {
				keyed = append(keyed, entry{nil, iter.Value().Interface()})
				continue
			}
			k = k.Elem()
		}
		if k.Kind() == reflect.String && plainKey(k.String()) {
			plain[k.String()] = iter.Value().Interface()
			continue
		}
		keyed = append(keyed, entry{k.Interface(), iter.Value().Interface()})
	}

	names := make([]string, 0, len(plain))
	for name := range plain {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		child, err := sub.CreateGroup(name)
		if err != nil {
			return err
		}
		if err := w.Encode(plain[name], child); err != nil {
			return err
		}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		ki, kj := sortKey(keyed[i].key), sortKey(keyed[j].key)
		if ki != kj {
			return ki < kj
		}
		return sortKey(keyed[i].value) < sortKey(keyed[j].value)
	})
	for i, e := range keyed {
		child, err := sub.CreateGroup(keyedPrefix + strconv.Itoa(i))
		if err != nil {
			return err
		}
		if err := w.Encode(dictItem{Key: e.key, Value: e.value}, child); err != nil {
			return err
		}
	}
	return nil
}

// sortKey renders k by value, following pointers, so the order of keyed entries
// does not depend on addresses. Channel and func values render as their type only.
func sortKey(k any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%T:", k)
	writeSortKey(&b, reflect.ValueOf(k), 0)
	return b.String()
}

const maxSortKeyDepth = 8

func writeSortKey(b *strings.Builder, v reflect.Value, depth int) {
	if !v.IsValid() {
		b.WriteString("<nil>")
		return
	}
	if depth > maxSortKeyDepth {
		b.WriteString("...")
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			b.WriteString("<nil>")
			return
		}
		b.WriteByte('&')
		writeSortKey(b, v.Elem(), depth+1)
	case reflect.Struct:
		b.WriteByte('{')
		for i := 0; i < v.NumField(); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeSortKey(b, v.Field(i), depth+1)
		}
		b.WriteByte('}')
	case reflect.Array:
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeSortKey(b, v.Index(i), depth+1)
		}
		b.WriteByte(']')
	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case reflect.Complex64, reflect.Complex128:
		b.WriteString(strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	default:
		b.WriteString(v.Type().String())
	}
}

func decodeDict(w registry.Walker, g store.Group, _ registry.Kwargs) (any, error) {
	sub, err := g.OpenGroup(registry.ValueKey)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(sub.Keys()))
	allStrings := true
	for _, name := range sub.Keys() {
		child, err := sub.OpenGroup(name)
		if err != nil {
			return nil, err
		}
		decoded, err := w.Decode(child)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(name, keyedPrefix) {
			entries = append(entries, entry{name, decoded})
			continue
		}

		item, ok := decoded.(dictItem)
		if !ok {
			return nil, errors.NewValidationError(child.Name(), fmt.Sprintf("expected a %s group", TagDictItem))
		}
		if item.Key != nil && !reflect.ValueOf(item.Key).Comparable() {
			return nil, errors.NewUnhashableKeyError(child.Name(), fmt.Sprintf("%T", item.Key))
		}
		if _, isString := item.Key.(string); !isString {
			allStrings = false
		}
		entries = append(entries, entry{item.Key, item.Value})
	}

	if allStrings {
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[e.key.(string)] = e.value
		}
		return out, nil
	}
	out := make(map[any]any, len(entries))
	for _, e := range entries {
		out[e.key] = e.value
	}
	return out, nil
}

func encodeDictItem(w registry.Walker, obj any, g store.Group) error {
	item := obj.(dictItem)
	h := NewHandle(w, g)
	if err := h.Encode("key", item.Key); err != nil {
		return err
	}
	return h.Encode("value", item.Value)
}

func decodeDictItem(w registry.Walker, g store.Group, _ registry.Kwargs) (any, error) {
	h := NewHandle(w, g)
	key, err := h.Decode("key")
	if err != nil {
		return nil, err
	}
	value, err := h.Decode("value")
	if err != nil {
		return nil, err
	}
	return dictItem{Key: key, Value: value}, nil
}
