/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every typed error below matches exactly one of these in addition
// to its own sentinel, so callers can branch on the broad failure kind.
var (
	// ErrType is the class of errors caused by a value the engine cannot handle
	ErrType = errors.New("type error")

	// ErrKey is the class of errors caused by an unknown name
	ErrKey = errors.New("key error")

	// ErrValue is the class of errors caused by malformed or conflicting data
	ErrValue = errors.New("value error")
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a stored key or tree does not exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when attempting to create something that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrReadOnly is returned when writing to a store opened for reading
	ErrReadOnly = errors.New("store is read-only")

	// ErrDuplicateTag is returned when a type tag is registered twice
	ErrDuplicateTag = errors.New("duplicate type tag")

	// ErrSerializerNotFound is returned when no codec exists for a value
	ErrSerializerNotFound = errors.New("serializer not found")

	// ErrUnknownTag is returned when a stored type tag has no codec
	ErrUnknownTag = errors.New("unknown type tag")

	// ErrMissingTypeTag is returned when a group carries no type tag
	ErrMissingTypeTag = errors.New("missing type tag")

	// ErrTagMismatch is returned when a codec is handed a group of another type
	ErrTagMismatch = errors.New("type tag mismatch")

	// ErrUnhashableKey is returned when a decoded mapping key cannot be used as a map key
	ErrUnhashableKey = errors.New("unhashable mapping key")

	// ErrInvalidMapping is returned when a declared attribute mapping is malformed
	ErrInvalidMapping = errors.New("invalid attribute mapping")
)

// NotFoundError represents an error when a key is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrKey
}

// AlreadyExistsError represents an error when a key already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// DuplicateTagError is returned when a tag, or a type, is subscribed a second time.
type DuplicateTagError struct {
	Tag string
	// TypeName is set when the type itself was already subscribed.
	TypeName string
}

func (e *DuplicateTagError) Error() string {
	if e.TypeName != "" {
		return fmt.Sprintf("type %s is already subscribed (new tag %q)", e.TypeName, e.Tag)
	}
	return fmt.Sprintf("type tag %q is already registered", e.Tag)
}

func (e *DuplicateTagError) Is(target error) bool {
	return target == ErrDuplicateTag || target == ErrValue
}

// SerializerNotFoundError is returned when a value has no codec and no plugin provides one.
type SerializerNotFoundError struct {
	TypeName string
	// Plugin is the plugin entry that was loaded without providing a codec, if any.
	Plugin string
}

func (e *SerializerNotFoundError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("cannot serialize value of type %q, even after loading plugin %q", e.TypeName, e.Plugin)
	}
	return fmt.Sprintf("cannot serialize value of type %q, and no corresponding plugin entry found", e.TypeName)
}

func (e *SerializerNotFoundError) Is(target error) bool {
	return target == ErrSerializerNotFound || target == ErrType
}

// UnknownTagError is returned when a stored type tag cannot be resolved to a codec.
type UnknownTagError struct {
	Tag    string
	Plugin string
}

func (e *UnknownTagError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("unknown type_tag %q, even after loading plugin %q", e.Tag, e.Plugin)
	}
	return fmt.Sprintf("unknown type_tag %q: the package defining this type has not been imported, and no matching plugin entry was found", e.Tag)
}

func (e *UnknownTagError) Is(target error) bool {
	return target == ErrUnknownTag || target == ErrKey
}

// MissingTypeTagError is returned when a group passed to decode has no type_tag.
type MissingTypeTagError struct {
	Path string
}

func (e *MissingTypeTagError) Error() string {
	return fmt.Sprintf("no type information given in %q", e.Path)
}

func (e *MissingTypeTagError) Is(target error) bool {
	return target == ErrMissingTypeTag || target == ErrValue
}

// TagMismatchError is returned when a codec reads a group written for another tag.
type TagMismatchError struct {
	Path     string
	Tag      string
	Accepted []string
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("type tag %q in %q does not match any of [%s]", e.Tag, e.Path, strings.Join(e.Accepted, ", "))
}

func (e *TagMismatchError) Is(target error) bool {
	return target == ErrTagMismatch
}

// UnhashableKeyError is returned when a reconstructed mapping key is not comparable.
type UnhashableKeyError struct {
	Path     string
	TypeName string
}

func (e *UnhashableKeyError) Error() string {
	return fmt.Sprintf("mapping key of type %s in %q cannot be used as a key", e.TypeName, e.Path)
}

func (e *UnhashableKeyError) Is(target error) bool {
	return target == ErrUnhashableKey || target == ErrValue
}

// InvalidMappingError is returned when a declared attribute layout is unusable.
type InvalidMappingError struct {
	Type    string
	Message string
}

func (e *InvalidMappingError) Error() string {
	return fmt.Sprintf("invalid attribute mapping for %s: %s", e.Type, e.Message)
}

func (e *InvalidMappingError) Is(target error) bool {
	return target == ErrInvalidMapping || target == ErrValue
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Type: kind, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Type: kind, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewDuplicateTagError creates a new DuplicateTagError
func NewDuplicateTagError(tag string) error {
	return &DuplicateTagError{Tag: tag}
}

// NewDuplicateTypeError creates a DuplicateTagError for a type subscribed twice
func NewDuplicateTypeError(typeName, tag string) error {
	return &DuplicateTagError{Tag: tag, TypeName: typeName}
}

// NewSerializerNotFoundError creates a new SerializerNotFoundError
func NewSerializerNotFoundError(typeName, plugin string) error {
	return &SerializerNotFoundError{TypeName: typeName, Plugin: plugin}
}

// NewUnknownTagError creates a new UnknownTagError
func NewUnknownTagError(tag, plugin string) error {
	return &UnknownTagError{Tag: tag, Plugin: plugin}
}

// NewMissingTypeTagError creates a new MissingTypeTagError
func NewMissingTypeTagError(path string) error {
	return &MissingTypeTagError{Path: path}
}

// NewTagMismatchError creates a new TagMismatchError
func NewTagMismatchError(path, tag string, accepted []string) error {
	return &TagMismatchError{Path: path, Tag: tag, Accepted: accepted}
}

// NewUnhashableKeyError creates a new UnhashableKeyError
func NewUnhashableKeyError(path, typeName string) error {
	return &UnhashableKeyError{Path: path, TypeName: typeName}
}

// NewInvalidMappingError creates a new InvalidMappingError
func NewInvalidMappingError(typeName, message string) error {
	return &InvalidMappingError{Type: typeName, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsReadOnly checks if an error is a read-only store error
func IsReadOnly(err error) bool {
	return errors.Is(err, ErrReadOnly)
}

// IsTypeError reports whether err belongs to the type error class
func IsTypeError(err error) bool {
	return errors.Is(err, ErrType)
}

// IsKeyError reports whether err belongs to the key error class
func IsKeyError(err error) bool {
	return errors.Is(err, ErrKey)
}

// IsValueError reports whether err belongs to the value error class
func IsValueError(err error) bool {
	return errors.Is(err, ErrValue)
}

// IsDuplicateTag checks if an error is a duplicate tag error
func IsDuplicateTag(err error) bool {
	return errors.Is(err, ErrDuplicateTag)
}

// IsSerializerNotFound checks if an error is a serializer not found error
func IsSerializerNotFound(err error) bool {
	return errors.Is(err, ErrSerializerNotFound)
}

// IsUnknownTag checks if an error is an unknown tag error
func IsUnknownTag(err error) bool {
	return errors.Is(err, ErrUnknownTag)
}

// IsMissingTypeTag checks if an error is a missing type tag error
func IsMissingTypeTag(err error) bool {
	return errors.Is(err, ErrMissingTypeTag)
}

// IsTagMismatch checks if an error is a tag mismatch error
func IsTagMismatch(err error) bool {
	return errors.Is(err, ErrTagMismatch)
}
