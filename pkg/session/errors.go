package session

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the parent of every misconfiguration error.
	// Requests failing with it are rejected and never retried.
	ErrConfiguration = errors.New("session.configuration")

	// ErrMissingSecret indicates no signing secret is configured
	ErrMissingSecret = fmt.Errorf("%w: secret is missing, a secret is required", ErrConfiguration)

	// ErrInsecureConnection indicates a secure cookie was configured but the request is not secure
	ErrInsecureConnection = fmt.Errorf("%w: cookie.secure set but connection is not secure", ErrConfiguration)

	// ErrNotFound indicates the store holds no session for the identifier.
	// Stores must return it (or wrap it) for missing and expired entries.
	ErrNotFound = errors.New("session.not_found")

	// ErrIDGeneration indicates the identifier generator failed
	ErrIDGeneration = errors.New("session.id_generation_failed")

	// ErrCorruptRecord indicates stored session data could not be decoded
	ErrCorruptRecord = errors.New("session.corrupt_record")

	// ErrSave indicates the session could not be persisted at the end of a request
	ErrSave = errors.New("session.save_failed")

	// ErrInvalidPolicy indicates an unknown policy name
	ErrInvalidPolicy = errors.New("session.invalid_policy")
)
