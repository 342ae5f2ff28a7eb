/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/metrics"
	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/registry"
	"github.com/suparena/entitycodec/store"
	"github.com/suparena/entitycodec/store/filestore"
)

// Resolver loads codec support for an identifier on demand.
// *plugin.Resolver implements it.
type Resolver interface {
	Resolve(identifier string) (prefix string, ok bool, err error)
}

// Engine walks values and groups, dispatching to the codecs of its registry.
type Engine struct {
	reg    *registry.Registry
	load   Resolver
	save   Resolver
	source plugin.Source
	opener store.Opener
	log    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithRegistry sets the registry. It should come from NewRegistry so the built-in
// codecs are present.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.reg = reg
	}
}

// WithPlugins resolves unknown tags and types through the entry points of src.
func WithPlugins(src plugin.Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithResolvers sets the decode side and encode side resolvers directly. Either may be nil.
func WithResolvers(load, save Resolver) Option {
	return func(e *Engine) {
		e.load = load
		e.save = save
	}
}

// WithOpener sets the store used by Save and Load.
func WithOpener(o store.Opener) Option {
	return func(e *Engine) {
		e.opener = o
	}
}

// WithLogger sets the logger the engine logs to.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates an Engine. Without options it has a private registry with the
// built-in codecs, no plugins and the file store.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.reg == nil {
		e.reg = NewRegistry()
	}
	if e.source != nil {
		if e.load == nil {
			e.load = plugin.NewResolver(e.source, plugin.LoadGroup, e.reg)
		}
		if e.save == nil {
			e.save = plugin.NewResolver(e.source, plugin.SaveGroup, e.reg)
		}
	}
	if e.opener == nil {
		e.opener = filestore.Opener{}
	}
	if e.log == nil {
		e.log = Logger()
	}
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the engine used by the package-level functions: the default
// registry, the default plugin catalog and the file store.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine(
			WithRegistry(DefaultRegistry()),
			WithPlugins(plugin.Cached(plugin.Default())),
		)
	})
	return defaultEngine
}

func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

func (e *Engine) Opener() store.Opener {
	return e.opener
}

type encodeFunc func(obj any, g store.Group) error

// Encode writes obj into g, which must be empty.
func (e *Engine) Encode(obj any, g store.Group) error {
	enc, err := e.encoderFor(obj)
	if err != nil {
		return err
	}
	return enc(obj, g)
}

func (e *Engine) encoderFor(obj any) (encodeFunc, error) {
	if enc := e.lookupEncoder(obj); enc != nil {
		return enc, nil
	}

	name := qualifiedName(reflect.TypeOf(obj))
	if e.save == nil {
		return nil, errors.NewSerializerNotFoundError(name, "")
	}
	prefix, ok, err := e.save.Resolve(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewSerializerNotFoundError(name, "")
	}
	e.log.Debug("Retrying encode after plugin load", zap.String("type", name), zap.String("entry", prefix))
	if enc := e.lookupEncoder(obj); enc != nil {
		return enc, nil
	}
	return nil, errors.NewSerializerNotFoundError(name, prefix)
}

// lookupEncoder returns nil when nothing in the registry or the structural
// categories handles obj.
func (e *Engine) lookupEncoder(obj any) encodeFunc {
	if obj == nil {
		return e.builtin(TagNone)
	}
	v := reflect.ValueOf(obj)
	t := v.Type()
	if t.Kind() == reflect.Pointer && v.IsNil() {
		return e.builtin(TagNone)
	}

	if entry, ok := e.lookupType(t); ok {
		return func(obj any, g store.Group) error {
			return e.encodeEntry(entry, obj, g)
		}
	}
	if s, ok := obj.(Serializable); ok {
		return func(_ any, g store.Group) error {
			return s.ToStore(NewHandle(e, g))
		}
	}
	if isMapping(t) {
		return func(obj any, g store.Group) error {
			return encodeMapping(e, obj, g)
		}
	}

	switch classify(t) {
	case categoryNumber:
		return e.builtin(TagNumber)
	case categoryScalar:
		return e.builtin(TagScalar)
	case categoryMapping:
		return e.builtin(TagDict)
	case categorySequence:
		return e.builtin(TagList)
	}

	if t.Kind() == reflect.Pointer {
		elem := v.Elem().Interface()
		if enc := e.lookupEncoder(elem); enc != nil {
			return func(_ any, g store.Group) error {
				return enc(elem, g)
			}
		}
	}
	return nil
}

func (e *Engine) lookupType(t reflect.Type) (*registry.Entry, bool) {
	if entry, ok := e.reg.LookupType(t); ok && entry.CanEncode() {
		return entry, true
	}
	if t.Kind() == reflect.Pointer {
		if entry, ok := e.reg.LookupType(t.Elem()); ok && entry.CanEncode() {
			return entry, true
		}
	}
	return nil, false
}

func (e *Engine) builtin(tag string) encodeFunc {
	entry, ok := e.reg.Lookup(tag)
	if !ok {
		return nil
	}
	return func(obj any, g store.Group) error {
		return e.encodeEntry(entry, obj, g)
	}
}

func (e *Engine) encodeEntry(entry *registry.Entry, obj any, g store.Group) error {
	if err := entry.Encode(e, obj, g); err != nil {
		return err
	}
	metrics.EncodedTotal.WithLabelValues(entry.Tag).Inc()
	return nil
}

// Decode rebuilds the value stored in g.
func (e *Engine) Decode(g store.Group) (any, error) {
	return e.decode(g, nil)
}

func (e *Engine) decode(g store.Group, kw Kwargs) (any, error) {
	tag, ok, err := registry.ReadTag(g)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewMissingTypeTagError(g.Name())
	}
	entry, err := e.entryFor(tag)
	if err != nil {
		return nil, err
	}
	return e.decodeEntry(entry, g, kw)
}

func (e *Engine) decodeEntry(entry *registry.Entry, g store.Group, kw Kwargs) (any, error) {
	v, err := entry.Decode(e, g, kw)
	if err != nil {
		return nil, err
	}
	metrics.DecodedTotal.WithLabelValues(entry.Tag).Inc()
	return v, nil
}

func (e *Engine) entryFor(tag string) (*registry.Entry, error) {
	if entry, ok := e.reg.Lookup(tag); ok {
		return entry, nil
	}
	if e.load == nil {
		return nil, errors.NewUnknownTagError(tag, "")
	}
	prefix, ok, err := e.load.Resolve(tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewUnknownTagError(tag, "")
	}
	e.log.Debug("Retrying decode after plugin load", zap.String("tag", tag), zap.String("entry", prefix))
	if entry, ok := e.reg.Lookup(tag); ok {
		return entry, nil
	}
	return nil, errors.NewUnknownTagError(tag, prefix)
}

// DecodeType decodes g as a value of type t, the way DecodeAs does.
func (e *Engine) DecodeType(t reflect.Type, g store.Group, kw Kwargs) (any, error) {
	if entry, ok := e.reg.LookupType(t); ok && entry.DecodeFn != nil {
		return e.decodeEntry(entry, g, kw)
	}

	p := reflect.New(t)
	if d, ok := p.Interface().(Deserializable); ok {
		if err := d.FromStore(NewHandle(e, g), kw); err != nil {
			return nil, err
		}
		return p.Interface(), nil
	}
	if isMapping(t) {
		return decodeMapping(t)(e, g, kw)
	}

	v, err := e.decode(g, kw)
	if err != nil {
		return nil, err
	}
	if err := assign(p.Interface(), v); err != nil {
		return nil, errors.NewValidationError(g.Name(), err.Error())
	}
	return p.Interface(), nil
}

// qualifiedName is the identifier used for encode-side plugin lookup:
// import path and type name, e.g. "github.com/go-openapi/strfmt.DateTime".
func qualifiedName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
