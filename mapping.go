/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/registry"
	"github.com/suparena/entitycodec/store"
)

const mappingTagName = "store"

// SimpleMapping, embedded in a struct, declares the struct's tagged fields as its
// stored attributes:
//
//	type Sample struct {
//	    entitycodec.SimpleMapping
//	    X    int     `store:"x"`
//	    Note *string `store:"note,optional"`
//	}
//
// Required attributes are always written. Optional ones are skipped when zero
// and may be absent on decode. Untagged embedded structs contribute their
// attributes too, so a struct embedding another mapping extends it.
type SimpleMapping struct{}

func (SimpleMapping) simpleMapping() {}

type simpleMapper interface {
	simpleMapping()
}

var (
	simpleMapperType  = reflect.TypeFor[simpleMapper]()
	simpleMappingType = reflect.TypeFor[SimpleMapping]()
)

func isMapping(t reflect.Type) bool {
	return t.Implements(simpleMapperType)
}

type attribute struct {
	name     string
	index    []int
	optional bool
}

type layout struct {
	attrs []attribute
	err   error
}

var layouts sync.Map // reflect.Type -> *layout

// attributesOf returns the validated attribute layout of struct type t.
func attributesOf(t reflect.Type) ([]attribute, error) {
	if l, ok := layouts.Load(t); ok {
		return l.(*layout).attrs, l.(*layout).err
	}

	var attrs []attribute
	err := collectAttributes(t, t, nil, &attrs)
	if err == nil {
		err = validateAttributes(t, attrs)
	}
	l, _ := layouts.LoadOrStore(t, &layout{attrs: attrs, err: err})
	return l.(*layout).attrs, l.(*layout).err
}

func collectAttributes(root, t reflect.Type, index []int, attrs *[]attribute) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int{}, index...), i)
		tag, tagged := f.Tag.Lookup(mappingTagName)

		if f.Anonymous && !tagged {
			if f.Type == simpleMappingType {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				if err := collectAttributes(root, f.Type, idx, attrs); err != nil {
					return err
				}
			}
			continue
		}
		if !tagged || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return errors.NewInvalidMappingError(root.String(), fmt.Sprintf("field %s is not exported", f.Name))
		}

		name, opt, _ := strings.Cut(tag, ",")
		switch opt {
		case "", "optional":
		default:
			return errors.NewInvalidMappingError(root.String(), fmt.Sprintf("unknown option %q on field %s", opt, f.Name))
		}
		*attrs = append(*attrs, attribute{name: name, index: idx, optional: opt == "optional"})
	}
	return nil
}

func validateAttributes(t reflect.Type, attrs []attribute) error {
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		switch {
		case !store.ValidName(a.name):
			return errors.NewInvalidMappingError(t.String(), fmt.Sprintf("%q is not a valid attribute name", a.name))
		case a.name == registry.TypeTagKey:
			return errors.NewInvalidMappingError(t.String(), fmt.Sprintf("%q is reserved", a.name))
		case seen[a.name]:
			return errors.NewInvalidMappingError(t.String(), fmt.Sprintf("attribute %q is declared more than once", a.name))
		}
		seen[a.name] = true
	}
	return nil
}

func encodeMapping(w registry.Walker, obj any, g store.Group) error {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	attrs, err := attributesOf(v.Type())
	if err != nil {
		return err
	}

	h := NewHandle(w, g)
	for _, a := range attrs {
		fv := v.FieldByIndex(a.index)
		if a.optional && fv.IsZero() {
			continue
		}
		if err := h.Set(a.name, fv.Interface()); err != nil {
			return err
		}
	}
	return nil
}

func decodeMapping(t reflect.Type) registry.DecodeFunc {
	return func(w registry.Walker, g store.Group, kw registry.Kwargs) (any, error) {
		attrs, err := attributesOf(t)
		if err != nil {
			return nil, err
		}

		h := NewHandle(w, g)
		values := make(map[string]any, len(attrs)+len(kw))
		for _, a := range attrs {
			if !g.Has(a.name) {
				if _, supplied := kw[a.name]; a.optional || supplied {
					continue
				}
				return nil, errors.NewNotFoundError("group "+g.Name(), a.name)
			}
			v, err := h.Get(a.name)
			if err != nil {
				return nil, err
			}
			values[a.name] = v
		}
		for k, v := range kw {
			if _, stored := values[k]; !stored {
				values[k] = v
			}
		}

		p := reflect.New(t)
		if err := assign(p.Interface(), values); err != nil {
			return nil, errors.NewValidationError(g.Name(), err.Error())
		}
		return p.Interface(), nil
	}
}
