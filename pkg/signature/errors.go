package signature

import "errors"

var (
	// ErrNoSecret is returned by New when no non-empty secret is supplied.
	ErrNoSecret = errors.New("signature.no_secret")

	// ErrInvalidSignature is returned by Verify when no secret matches.
	ErrInvalidSignature = errors.New("signature.invalid")
)
