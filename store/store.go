/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import (
	"fmt"
	"strings"
)

// Group is one named node of a hierarchical store: the root or any group below it.
// Children are either groups or scalar leaves whose values are of a native Kind.
type Group interface {
	// Name returns the absolute path of the group, "/" for the root.
	Name() string

	// Keys lists child names in the backend's enumeration order.
	Keys() []string

	Has(key string) bool
	IsGroup(key string) bool

	// Read returns the scalar stored under key.
	Read(key string) (any, error)

	// Write stores a native scalar under a new key.
	Write(key string, value any) error

	CreateGroup(name string) (Group, error)
	OpenGroup(name string) (Group, error)
}

// File is an opened store. Close persists pending writes and must be called once.
type File interface {
	Root() Group
	Close() error
}

// Opener creates and opens stores addressed by a path.
// Create truncates an existing store; Open returns it read-only.
type Opener interface {
	Create(path string) (File, error)
	Open(path string) (File, error)
}

// Kind enumerates the scalar types every backend stores natively.
type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128
	String
	Bytes
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Bool:       "bool",
	Int:        "int",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Uint:       "uint",
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Uint64:     "uint64",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
	String:     "string",
	Bytes:      "bytes",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k) != Invalid {
			return Kind(k), true
		}
	}
	return Invalid, false
}

// KindOf reports the Kind of a native scalar. Named types are not native.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case bool:
		return Bool, true
	case int:
		return Int, true
	case int8:
		return Int8, true
	case int16:
		return Int16, true
	case int32:
		return Int32, true
	case int64:
		return Int64, true
	case uint:
		return Uint, true
	case uint8:
		return Uint8, true
	case uint16:
		return Uint16, true
	case uint32:
		return Uint32, true
	case uint64:
		return Uint64, true
	case float32:
		return Float32, true
	case float64:
		return Float64, true
	case complex64:
		return Complex64, true
	case complex128:
		return Complex128, true
	case string:
		return String, true
	case []byte:
		return Bytes, true
	}
	return Invalid, false
}

// IsNative reports whether v can be written to a store without a codec.
func IsNative(v any) bool {
	_, ok := KindOf(v)
	return ok
}

// ValidName reports whether name can be used as a child key.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}

// Join builds the absolute path of a child.
func Join(parent, name string) string {
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}
