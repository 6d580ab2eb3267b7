package session

import (
	"fmt"
	"strings"
)

// Policy selects the rules deciding when a session is saved and when its cookie is sent.
type Policy uint8

const (
	// Persistent sessions become active only through Generate or Inflate.
	// The cookie path also scopes which requests get a session.
	Persistent Policy = iota

	// Transactional sessions exist as soon as they hold an identifier.
	// Their cookie is always Secure and no path scoping applies.
	Transactional
)

// ParsePolicy maps "persistent" or "transactional" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "persistent":
		return Persistent, nil
	case "transactional":
		return Transactional, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

func (p Policy) String() string {
	switch p {
	case Persistent:
		return "persistent"
	case Transactional:
		return "transactional"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// eligible reports whether a session with the given state must be saved and have its cookie set.
func (p Policy) eligible(id string, loaded bool) bool {
	if p == Transactional {
		return id != ""
	}
	return id != "" && loaded
}

// scoped reports whether the cookie path restricts which requests get a session.
func (p Policy) scoped() bool {
	return p == Persistent
}

// apply enforces policy specific cookie attributes.
func (p Policy) apply(c Cookie) Cookie {
	if p == Transactional {
		c.Secure = true
	}
	return c
}
