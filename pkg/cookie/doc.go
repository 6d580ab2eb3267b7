// Package cookie encodes and decodes the HTTP cookies that carry signed
// session identifiers.
//
// It is deliberately small: a session cookie is a single name/value pair whose
// value is a signed identifier prefixed with "s:", plus the usual attributes.
//
//	Set-Cookie: session=s:<id>.<signature>; Path=/; Max-Age=60; HttpOnly; Secure
//
// # Overview
//
//   • Encode / EncodeSigned – build one Set-Cookie header value
//   • Decode – pick one cookie out of a Cookie request header
//   • StripPrefix – accept only values that carry the signed prefix
//   • DecodeSigned – Decode + StripPrefix + signature verification
//   • Append / Remove – queue Set-Cookie values on a response without
//     clobbering values set by other middleware
//
// Signing itself lives in the signature package; this package only needs a
// value satisfying the Signer or Verifier interface.
//
// # Usage
//
//	signer, _ := signature.New(os.Getenv("SESSION_SECRET"))
//	header, err := cookie.EncodeSigned("session", id, signer, cookie.Options{
//	    Path:     "/",
//	    MaxAge:   3600,
//	    HttpOnly: true,
//	})
//	if err == nil {
//	    cookie.Append(w.Header(), header)
//	}
//
//	id, ok := cookie.DecodeSigned(r, "session", signer)
//
// # Configuration
//
// Config carries the attributes with env tags so they can be loaded with
// github.com/caarlos0/env; Config.Options converts them for Encode.
//
// # Error Handling
//
// Decoding never fails loudly: absent, unsigned or tampered cookies are
// reported as missing. Encode returns ErrInvalidName when net/http refuses the
// cookie name.
package cookie
