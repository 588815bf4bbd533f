// Package token mints and verifies the signed, time-bounded tokens used by
// the portal: the long-lived session token persisted on the client and the
// short-lived handoff token passed to the FAQ service in a URL.
//
// # Wire format
//
// A session token is a pair {payload, signature}: the payload is the JSON
// claims encoded with unpadded base64url, the signature is the hex
// HMAC-SHA256 tag over the exact JSON bytes. A handoff token wraps the same
// pair in a second JSON object {p, s} and base64url-encodes the whole thing,
// so it travels as one opaque URL-safe string.
//
// Verification is purely local. Any service holding the same signing secret
// can verify a token without a shared session store.
package token
