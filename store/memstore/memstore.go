/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memstore provides an in-memory hierarchical store.
//
// Besides being a backend of its own, its Node tree is the buffer the file and
// DynamoDB backends fill while a store is open and serialize on Close.
package memstore

import (
	"sort"
	"sync"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
)

// Node is either a group (with children) or a scalar leaf.
type Node struct {
	value    any
	children map[string]*Node
}

// NewGroupNode returns an empty group node
func NewGroupNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

// NewScalarNode returns a leaf holding v
func NewScalarNode(v any) *Node {
	return &Node{value: v}
}

func (n *Node) IsGroup() bool {
	return n.children != nil
}

// Value returns the scalar of a leaf node
func (n *Node) Value() any {
	return n.value
}

// Child returns the named child of a group node
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Children returns child names in lexical order
func (n *Node) Children() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set attaches child under name, replacing any previous child
func (n *Node) Set(name string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	n.children[name] = child
}

// Option configures a File
type Option func(*File)

// WithKeyOrder reorders the key lists returned by groups, in place.
// Tests use it to emulate backends with arbitrary enumeration order.
func WithKeyOrder(order func(keys []string)) Option {
	return func(f *File) {
		f.order = order
	}
}

// File is an open in-memory store
type File struct {
	root     *Node
	readOnly bool
	order    func([]string)
}

// New creates an empty writable store
func New(opts ...Option) *File {
	return FromNode(NewGroupNode(), false, opts...)
}

// FromNode wraps an existing tree
func FromNode(root *Node, readOnly bool, opts ...Option) *File {
	f := &File{root: root, readOnly: readOnly}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *File) Root() store.Group {
	return &group{file: f, node: f.root, path: "/"}
}

// Node returns the root node of the tree
func (f *File) Node() *Node {
	return f.root
}

func (f *File) ReadOnly() bool {
	return f.readOnly
}

func (f *File) Close() error {
	return nil
}

type group struct {
	file *File
	node *Node
	path string
}

func (g *group) Name() string {
	return g.path
}

func (g *group) Keys() []string {
	keys := g.node.Children()
	if g.file.order != nil {
		g.file.order(keys)
	}
	return keys
}

func (g *group) Has(key string) bool {
	_, ok := g.node.children[key]
	return ok
}

func (g *group) IsGroup(key string) bool {
	c, ok := g.node.children[key]
	return ok && c.IsGroup()
}

func (g *group) Read(key string) (any, error) {
	c, ok := g.node.children[key]
	if !ok {
		return nil, errors.NewNotFoundError("group "+g.path, key)
	}
	if c.IsGroup() {
		return nil, errors.NewValidationError(store.Join(g.path, key), "is a group, not a scalar")
	}
	return c.value, nil
}

func (g *group) Write(key string, value any) error {
	if err := g.checkWritable(key); err != nil {
		return err
	}
	if !store.IsNative(value) {
		return errors.NewValidationError(store.Join(g.path, key), "unsupported scalar type")
	}
	g.node.Set(key, NewScalarNode(value))
	return nil
}

func (g *group) CreateGroup(name string) (store.Group, error) {
	if err := g.checkWritable(name); err != nil {
		return nil, err
	}
	child := NewGroupNode()
	g.node.Set(name, child)
	return &group{file: g.file, node: child, path: store.Join(g.path, name)}, nil
}

func (g *group) OpenGroup(name string) (store.Group, error) {
	c, ok := g.node.children[name]
	if !ok {
		return nil, errors.NewNotFoundError("group "+g.path, name)
	}
	if !c.IsGroup() {
		return nil, errors.NewValidationError(store.Join(g.path, name), "is a scalar, not a group")
	}
	return &group{file: g.file, node: c, path: store.Join(g.path, name)}, nil
}

func (g *group) checkWritable(key string) error {
	if g.file.readOnly {
		return errors.ErrReadOnly
	}
	if !store.ValidName(key) {
		return errors.NewValidationError(store.Join(g.path, key), "invalid name")
	}
	if _, exists := g.node.children[key]; exists {
		return errors.NewAlreadyExistsError("group "+g.path, key)
	}
	return nil
}

// Store keeps named trees in memory and implements store.Opener
type Store struct {
	mu    sync.RWMutex
	trees map[string]*Node
	opts  []Option
}

// NewStore creates an empty named-tree store
func NewStore(opts ...Option) *Store {
	return &Store{
		trees: make(map[string]*Node),
		opts:  opts,
	}
}

// Create starts a new tree under path; it replaces any previous tree on Close
func (s *Store) Create(path string) (store.File, error) {
	return &pendingFile{File: New(s.opts...), store: s, path: path}, nil
}

// Open returns the tree stored under path, read-only
func (s *Store) Open(path string) (store.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root, ok := s.trees[path]
	if !ok {
		return nil, errors.NewNotFoundError("tree", path)
	}
	return FromNode(root, true, s.opts...), nil
}

// Paths lists stored tree names
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.trees))
	for p := range s.trees {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

type pendingFile struct {
	*File
	store  *Store
	path   string
	closed bool
}

func (p *pendingFile) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	p.store.trees[p.path] = p.File.root
	return nil
}
