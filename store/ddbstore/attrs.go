/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddbstore

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
	"github.com/suparena/entitycodec/store/memstore"
)

// A group is M{"g": M{children}}; a scalar is M{"k": S kind, "v": value}.
// Floats are kept as strings so NaN, infinities and negative zero survive.
const (
	groupAttr = "g"
	kindAttr  = "k"
	valueAttr = "v"
)

func treeToAttribute(n *memstore.Node) (types.AttributeValue, error) {
	if n.IsGroup() {
		children := make(map[string]types.AttributeValue)
		for _, name := range n.Children() {
			child, _ := n.Child(name)
			av, err := treeToAttribute(child)
			if err != nil {
				return nil, err
			}
			children[name] = av
		}
		return &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			groupAttr: &types.AttributeValueMemberM{Value: children},
		}}, nil
	}

	kind, ok := store.KindOf(n.Value())
	if !ok {
		return nil, errors.NewValidationError("value", fmt.Sprintf("unsupported scalar type %T", n.Value()))
	}
	return &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
		kindAttr:  &types.AttributeValueMemberS{Value: kind.String()},
		valueAttr: scalarToAttribute(n.Value()),
	}}, nil
}

func scalarToAttribute(v any) types.AttributeValue {
	switch x := v.(type) {
	case bool:
		return &types.AttributeValueMemberBOOL{Value: x}
	case int:
		return number(int64(x))
	case int8:
		return number(int64(x))
	case int16:
		return number(int64(x))
	case int32:
		return number(int64(x))
	case int64:
		return number(x)
	case uint:
		return unumber(uint64(x))
	case uint8:
		return unumber(uint64(x))
	case uint16:
		return unumber(uint64(x))
	case uint32:
		return unumber(uint64(x))
	case uint64:
		return unumber(x)
	case float32:
		return &types.AttributeValueMemberS{Value: strconv.FormatFloat(float64(x), 'g', -1, 32)}
	case float64:
		return &types.AttributeValueMemberS{Value: strconv.FormatFloat(x, 'g', -1, 64)}
	case complex64:
		return complexList(float64(real(x)), float64(imag(x)), 32)
	case complex128:
		return complexList(real(x), imag(x), 64)
	case string:
		return &types.AttributeValueMemberS{Value: x}
	case []byte:
		return &types.AttributeValueMemberB{Value: append([]byte{}, x...)}
	}
	return &types.AttributeValueMemberNULL{Value: true}
}

func number(i int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(i, 10)}
}

func unumber(u uint64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatUint(u, 10)}
}

func complexList(re, im float64, bits int) types.AttributeValue {
	return &types.AttributeValueMemberL{Value: []types.AttributeValue{
		&types.AttributeValueMemberS{Value: strconv.FormatFloat(re, 'g', -1, bits)},
		&types.AttributeValueMemberS{Value: strconv.FormatFloat(im, 'g', -1, bits)},
	}}
}

func treeFromAttribute(av types.AttributeValue) (*memstore.Node, error) {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return nil, errors.NewValidationError(treeAttribute, "expected a map attribute")
	}

	if g, isGroup := m.Value[groupAttr]; isGroup {
		children, ok := g.(*types.AttributeValueMemberM)
		if !ok {
			return nil, errors.NewValidationError(treeAttribute, "group children must be a map")
		}
		n := memstore.NewGroupNode()
		for name, cav := range children.Value {
			child, err := treeFromAttribute(cav)
			if err != nil {
				return nil, err
			}
			n.Set(name, child)
		}
		return n, nil
	}

	kav, ok := m.Value[kindAttr].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.NewValidationError(treeAttribute, "scalar has no kind")
	}
	kind, ok := store.ParseKind(kav.Value)
	if !ok {
		return nil, errors.NewValidationError(treeAttribute, fmt.Sprintf("unknown scalar kind %q", kav.Value))
	}
	v, err := scalarFromAttribute(kind, m.Value[valueAttr])
	if err != nil {
		return nil, errors.NewValidationError(treeAttribute, fmt.Sprintf("bad %s scalar: %v", kind, err))
	}
	return memstore.NewScalarNode(v), nil
}

func scalarFromAttribute(kind store.Kind, av types.AttributeValue) (any, error) {
	switch kind {
	case store.Bool:
		b, ok := av.(*types.AttributeValueMemberBOOL)
		if !ok {
			return nil, fmt.Errorf("expected BOOL")
		}
		return b.Value, nil
	case store.Int, store.Int8, store.Int16, store.Int32, store.Int64:
		n, ok := av.(*types.AttributeValueMemberN)
		if !ok {
			return nil, fmt.Errorf("expected N")
		}
		return parseInt(kind, n.Value)
	case store.Uint, store.Uint8, store.Uint16, store.Uint32, store.Uint64:
		n, ok := av.(*types.AttributeValueMemberN)
		if !ok {
			return nil, fmt.Errorf("expected N")
		}
		return parseUint(kind, n.Value)
	case store.Float32, store.Float64:
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("expected S")
		}
		if kind == store.Float32 {
			f, err := strconv.ParseFloat(s.Value, 32)
			return float32(f), err
		}
		return strconv.ParseFloat(s.Value, 64)
	case store.Complex64, store.Complex128:
		l, ok := av.(*types.AttributeValueMemberL)
		if !ok || len(l.Value) != 2 {
			return nil, fmt.Errorf("expected L of two numbers")
		}
		bits := 64
		if kind == store.Complex64 {
			bits = 32
		}
		parts := make([]float64, 2)
		for i, p := range l.Value {
			s, ok := p.(*types.AttributeValueMemberS)
			if !ok {
				return nil, fmt.Errorf("expected S")
			}
			f, err := strconv.ParseFloat(s.Value, bits)
			if err != nil {
				return nil, err
			}
			parts[i] = f
		}
		if kind == store.Complex64 {
			return complex(float32(parts[0]), float32(parts[1])), nil
		}
		return complex(parts[0], parts[1]), nil
	case store.String:
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("expected S")
		}
		return s.Value, nil
	case store.Bytes:
		b, ok := av.(*types.AttributeValueMemberB)
		if !ok {
			return nil, fmt.Errorf("expected B")
		}
		if b.Value == nil {
			return []byte{}, nil
		}
		return b.Value, nil
	}
	return nil, fmt.Errorf("unsupported kind")
}

func parseInt(kind store.Kind, s string) (any, error) {
	bits := map[store.Kind]int{store.Int: strconv.IntSize, store.Int8: 8, store.Int16: 16, store.Int32: 32, store.Int64: 64}[kind]
	i, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return nil, err
	}
	switch kind {
	case store.Int:
		return int(i), nil
	case store.Int8:
		return int8(i), nil
	case store.Int16:
		return int16(i), nil
	case store.Int32:
		return int32(i), nil
	}
	return i, nil
}

func parseUint(kind store.Kind, s string) (any, error) {
	bits := map[store.Kind]int{store.Uint: strconv.IntSize, store.Uint8: 8, store.Uint16: 16, store.Uint32: 32, store.Uint64: 64}[kind]
	u, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return nil, err
	}
	switch kind {
	case store.Uint:
		return uint(u), nil
	case store.Uint8:
		return uint8(u), nil
	case store.Uint16:
		return uint16(u), nil
	case store.Uint32:
		return uint32(u), nil
	}
	return u, nil
}
