package cookie

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// SignedPrefix marks a cookie value carrying a signed payload.
const SignedPrefix = "s:"

// Signer produces a signed representation of a value.
type Signer interface {
	Sign(value string) string
}

// Verifier recovers a value from its signed representation.
type Verifier interface {
	Unsign(signed string) (string, bool)
}

// Encode builds a single Set-Cookie header value.
func Encode(name, value string, opts Options) (string, error) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		Expires:  opts.Expires,
		Secure:   opts.Secure,
		HttpOnly: opts.HttpOnly,
		SameSite: opts.SameSite,
	}

	// http.Cookie.String yields an empty string for names it refuses to emit
	header := c.String()
	if header == "" {
		return "", ErrInvalidName
	}
	return header, nil
}

// EncodeSigned signs value, prefixes it with SignedPrefix and encodes the cookie.
func EncodeSigned(name, value string, s Signer, opts Options) (string, error) {
	return Encode(name, SignedPrefix+s.Sign(value), opts)
}

// Decode extracts the value of the named cookie from a Cookie request header.
// The first occurrence of name wins. Values may contain '='; surrounding
// double quotes are removed and percent-escapes decoded when valid.
func Decode(header, name string) (string, bool) {
	if header == "" || name == "" {
		return "", false
	}

	for part := range strings.SplitSeq(header, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) != name {
			continue
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		if strings.Contains(value, "%") {
			if unescaped, err := url.PathUnescape(value); err == nil {
				value = unescaped
			}
		}
		return value, true
	}

	return "", false
}

// StripPrefix returns the signed payload of raw. Values without SignedPrefix
// are reported as absent rather than as an error.
func StripPrefix(raw string) (string, bool) {
	payload, ok := strings.CutPrefix(raw, SignedPrefix)
	if !ok || payload == "" {
		return "", false
	}
	return payload, true
}

// DecodeSigned reads the named cookie from r and verifies it.
// Missing, unsigned and tampered cookies all yield ("", false).
func DecodeSigned(r *http.Request, name string, v Verifier) (string, bool) {
	raw, ok := Decode(strings.Join(r.Header.Values("Cookie"), "; "), name)
	if !ok {
		return "", false
	}

	payload, ok := StripPrefix(raw)
	if !ok {
		return "", false
	}

	return v.Unsign(payload)
}

// Append queues a Set-Cookie value without touching values already queued.
func Append(h http.Header, value string) {
	h.Add("Set-Cookie", value)
}

// Remove drops one queued Set-Cookie value equal to value. Other values keep their order.
func Remove(h http.Header, value string) {
	values := h.Values("Set-Cookie")
	idx := slices.Index(values, value)
	if idx < 0 {
		return
	}

	rest := slices.Delete(slices.Clone(values), idx, idx+1)
	if len(rest) == 0 {
		h.Del("Set-Cookie")
		return
	}
	h["Set-Cookie"] = rest
}
