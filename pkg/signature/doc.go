// Package signature signs and verifies opaque string values with HMAC-SHA256.
//
// The format is wire compatible with the widely used cookie-signature scheme:
//
//	<value>.<base64(HMAC-SHA256(secret, value)) without padding>
//
// so identifiers signed by this package can be verified by other stacks
// sharing the same secret and the other way around.
//
// # Usage
//
//	signed := signature.Sign("session-id", secret)
//	id, ok := signature.Unsign(signed, secret)
//
// A Signer holds several secrets to allow key rotation: values are always
// signed with the first secret and verified against all of them, so cookies
// issued before a rotation stay valid until the old secret is removed.
//
//	s, err := signature.New(current, previous)
//	signed := s.Sign(id)
//	id, ok := s.Unsign(signed)
//
// # Error Handling
//
// Verification never panics on malformed input. Unsign reports failure with a
// boolean; Verify returns ErrInvalidSignature for callers that prefer errors.
package signature
