/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package filestore keeps a hierarchical store in a single file.
//
// The tree is buffered in memory while the file is open and written as one
// CBOR document on Close. Every scalar carries its kind, so sized integers,
// complex numbers and byte strings are read back with their original Go type.
package filestore

import (
	"bufio"
	"os"

	"github.com/blang/semver/v4"
	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"

	ecerrors "github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
	"github.com/suparena/entitycodec/store/memstore"
)

// Format is the document format name written into every file.
const Format = "entitycodec"

var (
	// FormatVersion is the version written by this package.
	FormatVersion = semver.MustParse("1.0.0")

	compatible = semver.MustParseRange(">=1.0.0 <2.0.0")
)

type document struct {
	Format  string    `cbor:"format"`
	Version string    `cbor:"version"`
	Root    *wireNode `cbor:"root"`
}

// Opener implements store.Opener on the local file system.
type Opener struct{}

func (Opener) Create(path string) (store.File, error) {
	return Create(path)
}

func (Opener) Open(path string) (store.File, error) {
	return Open(path)
}

// File is an open file store
type File struct {
	*memstore.File
	path   string
	out    *os.File
	closed bool
}

// Create truncates or creates the file at path. The tree is written on Close.
func Create(path string) (*File, error) {
	out, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating store %s", path)
	}
	return &File{File: memstore.New(), path: path, out: out}, nil
}

// Open reads the file at path and returns it read-only.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ecerrors.NewNotFoundError("store", path)
		}
		return nil, errors.Wrapf(err, "opening store %s", path)
	}

	root, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "reading store %s", path)
	}
	return &File{File: memstore.FromNode(root, true), path: path}, nil
}

// Path returns the file path of the store
func (f *File) Path() string {
	return f.path
}

// Close writes the tree if the file was created for writing.
func (f *File) Close() error {
	if f.closed || f.out == nil {
		f.closed = true
		return nil
	}
	f.closed = true

	data, err := Encode(f.Node())
	if err != nil {
		f.out.Close()
		return errors.Wrapf(err, "encoding store %s", f.path)
	}
	w := bufio.NewWriter(f.out)
	if _, err := w.Write(data); err != nil {
		f.out.Close()
		return errors.Wrapf(err, "writing store %s", f.path)
	}
	if err := w.Flush(); err != nil {
		f.out.Close()
		return errors.Wrapf(err, "writing store %s", f.path)
	}
	return errors.Wrapf(f.out.Close(), "closing store %s", f.path)
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode serializes a tree into a versioned document.
func Encode(root *memstore.Node) ([]byte, error) {
	wire, err := toWire(root)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(document{Format: Format, Version: FormatVersion.String(), Root: wire})
}

// Decode parses a document produced by Encode.
func Decode(data []byte) (*memstore.Node, error) {
	var doc document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, ecerrors.NewValidationError("document", err.Error())
	}
	if doc.Format != Format {
		return nil, ecerrors.NewValidationError("format", "not an entitycodec store")
	}
	if err := CheckVersion(doc.Version); err != nil {
		return nil, err
	}
	if doc.Root == nil {
		return nil, ecerrors.NewValidationError("root", "document has no root group")
	}
	return fromWire(doc.Root)
}

// CheckVersion reports whether a stored format version can be read.
func CheckVersion(version string) error {
	v, err := semver.Parse(version)
	if err != nil {
		return ecerrors.NewValidationError("version", err.Error())
	}
	if !compatible(v) {
		return ecerrors.NewValidationError("version", "unsupported format version "+version)
	}
	return nil
}
