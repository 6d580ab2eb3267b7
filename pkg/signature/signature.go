package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"slices"
	"strings"
)

const separator = "."

// Sign returns value with an appended HMAC-SHA256 signature.
func Sign(value, secret string) string {
	return value + separator + mac(value, secret)
}

// Unsign returns the original value if signed carries a valid signature for secret.
// The signature is located at the last separator, so the value itself may contain dots.
func Unsign(signed, secret string) (string, bool) {
	idx := strings.LastIndex(signed, separator)
	if idx < 0 {
		return "", false
	}

	value := signed[:idx]
	expected := Sign(value, secret)

	// hmac.Equal compares in constant time
	if !hmac.Equal([]byte(expected), []byte(signed)) {
		return "", false
	}
	return value, true
}

func mac(value, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	return base64.RawStdEncoding.EncodeToString(h.Sum(nil))
}

// Signer signs with the first secret and verifies against every configured secret.
type Signer struct {
	secrets []string
}

// New creates a Signer. Empty secrets are dropped; at least one must remain.
func New(secrets ...string) (*Signer, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	return &Signer{secrets: secrets}, nil
}

// Sign signs value with the primary secret.
func (s *Signer) Sign(value string) string {
	return Sign(value, s.secrets[0])
}

// Unsign verifies signed against all secrets, newest first.
func (s *Signer) Unsign(signed string) (string, bool) {
	for _, secret := range s.secrets {
		if value, ok := Unsign(signed, secret); ok {
			return value, true
		}
	}
	return "", false
}

// Verify is Unsign with an error result.
func (s *Signer) Verify(signed string) (string, error) {
	value, ok := s.Unsign(signed)
	if !ok {
		return "", ErrInvalidSignature
	}
	return value, nil
}
