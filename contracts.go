/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"reflect"

	"github.com/suparena/entitycodec/registry"
)

// Kwargs carries caller context into FromStore. It is never written to a store.
type Kwargs = registry.Kwargs

// Serializable values write their own body into a group.
// The type tag of a subscribed type is written before ToStore is called.
type Serializable interface {
	ToStore(h *Handle) error
}

// Deserializable types rebuild themselves from a group.
// FromStore is called on a freshly allocated value.
type Deserializable interface {
	FromStore(h *Handle, kw Kwargs) error
}

// Entity is a type that can do both.
type Entity interface {
	Serializable
	Deserializable
}

var (
	serializableType   = reflect.TypeFor[Serializable]()
	deserializableType = reflect.TypeFor[Deserializable]()
)
