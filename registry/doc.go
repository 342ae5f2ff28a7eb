/*
Package registry manages the type tags known to entitycodec.

A Registry maps stable string tags to codec entries. Each Entry names a primary
tag, written into every group it encodes, and optional extra tags that are
accepted on decode so data written under an old name stays readable:

	reg := registry.New()
	err := reg.Register(&registry.Entry{
	    Tag:       "geo.Point",
	    ExtraTags: []string{"geo.LegacyPoint"},
	    Type:      reflect.TypeOf(Point{}),
	    EncodeFn:  encodePoint,
	    DecodeFn:  decodePoint,
	})

Registering a tag that is already present fails with a DuplicateTagError and
leaves the registry unchanged. Entries live for the lifetime of the registry.

The registry is thread-safe; plugin units may register entries while other
goroutines are looking tags up.
*/
package registry
