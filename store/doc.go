/*
Package store defines the hierarchical store contract used by entitycodec.

A store is a tree of named groups. Each group holds child groups and scalar
leaves; leaves are native values of one of the Kind types (sized integers,
floats, complex numbers, strings, byte slices and booleans) and are returned
with exactly the Go type they were written with.

Implementations:

	store/memstore   in-memory tree, also the buffer used by the other backends
	store/filestore  single file on disk
	store/ddbstore   one DynamoDB item per tree

Backends are selected by name through a Backends manager:

	backends := store.NewBackends()
	_ = backends.Register("file", filestore.Opener{})
	opener, err := backends.Get("file")
*/
package store
