/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Group", "x")

	expected := `Group with key "x" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if !IsKeyError(err) {
		t.Error("NotFoundError should belong to the key error class")
	}
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("Group", "value")

	expected := `Group with key "value" already exists`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsAlreadyExists(err) {
		t.Error("IsAlreadyExists should return true for AlreadyExistsError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "type_tag",
			message:  "not a string",
			expected: `validation failed for field "type_tag": not a string`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "type has no codec methods",
			expected: "validation failed: type has no codec methods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestConditionFailedError(t *testing.T) {
	err := NewConditionFailedError("create", "attribute_not_exists(PK)")

	expected := "condition check failed for create operation: attribute_not_exists(PK)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsConditionFailed(err) {
		t.Error("IsConditionFailed should return true for ConditionFailedError")
	}
}

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		class    error
	}{
		{"duplicate tag", NewDuplicateTagError("a.b"), ErrDuplicateTag, ErrValue},
		{"duplicate type", NewDuplicateTypeError("geo.Point", "a.b"), ErrDuplicateTag, ErrValue},
		{"serializer not found", NewSerializerNotFoundError("main.thing", ""), ErrSerializerNotFound, ErrType},
		{"unknown tag", NewUnknownTagError("a.b", ""), ErrUnknownTag, ErrKey},
		{"missing type tag", NewMissingTypeTagError("/"), ErrMissingTypeTag, ErrValue},
		{"unhashable key", NewUnhashableKeyError("/value/#0", "[]interface {}"), ErrUnhashableKey, ErrValue},
		{"invalid mapping", NewInvalidMappingError("main.Auto", "duplicate name"), ErrInvalidMapping, ErrValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%v should match %v", tt.err, tt.sentinel)
			}
			if !errors.Is(tt.err, tt.class) {
				t.Errorf("%v should match class %v", tt.err, tt.class)
			}
		})
	}
}

func TestTagMismatchIsNotAClassError(t *testing.T) {
	err := NewTagMismatchError("/", "other.tag", []string{"a.b", "a.old"})

	expected := `type tag "other.tag" in "/" does not match any of [a.b, a.old]`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsTagMismatch(err) {
		t.Error("IsTagMismatch should return true for TagMismatchError")
	}
	if IsValueError(err) || IsKeyError(err) || IsTypeError(err) {
		t.Error("TagMismatchError should not belong to a class")
	}
}

func TestUnknownTagMessages(t *testing.T) {
	plain := NewUnknownTagError("geo.Point", "")
	if got := plain.Error(); got != `unknown type_tag "geo.Point": the package defining this type has not been imported, and no matching plugin entry was found` {
		t.Errorf("unexpected message %q", got)
	}

	afterLoad := NewUnknownTagError("geo.Point", "geo")
	if got := afterLoad.Error(); got != `unknown type_tag "geo.Point", even after loading plugin "geo"` {
		t.Errorf("unexpected message %q", got)
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewUnknownTagError("geo.Point", "")
	wrapped := fmt.Errorf("decode failed: %w", original)

	if !IsUnknownTag(wrapped) {
		t.Error("IsUnknownTag should work with wrapped errors")
	}
	if !IsKeyError(wrapped) {
		t.Error("IsKeyError should work with wrapped errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrType,
		ErrKey,
		ErrValue,
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrConditionFailed,
		ErrReadOnly,
		ErrDuplicateTag,
		ErrSerializerNotFound,
		ErrUnknownTag,
		ErrMissingTypeTag,
		ErrTagMismatch,
		ErrUnhashableKey,
		ErrInvalidMapping,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
