/*
Package errors provides the semantic error types of entitycodec.

Every typed error matches its own sentinel and, where it applies, one of three
broad classes: ErrType (a value has no codec), ErrKey (a name is unknown) and
ErrValue (data is malformed or conflicting). Both can be checked with the
standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrDuplicateTag       = errors.New("duplicate type tag")
	    ErrSerializerNotFound = errors.New("serializer not found")
	    ErrUnknownTag         = errors.New("unknown type tag")
	    ErrMissingTypeTag     = errors.New("missing type tag")
	    ErrTagMismatch        = errors.New("type tag mismatch")
	)

Usage:

	obj, err := entitycodec.Load("points.ec")
	if err != nil {
	    if errors.IsUnknownTag(err) {
	        // the package defining the stored type was never imported
	        return nil, fmt.Errorf("install the codec package: %w", err)
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewUnknownTagError("geo.Point", "")
	err := errors.NewValidationError("type_tag", "not a string")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
