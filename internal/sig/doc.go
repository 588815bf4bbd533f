// Package sig provides the keyed-hash primitive shared by every token kind:
// HMAC-SHA256 over raw payload bytes, emitted as a fixed-length lowercase hex
// tag.
//
// # Contract
//
// The same (message, secret) pair always produces the same tag. Any single-bit
// change to either input changes the tag with overwhelming probability.
// Verification recomputes the tag and compares in constant time.
//
// # What this package must NOT do
//
//   - Carry expiry or payload semantics (those live in the token package).
//   - Import any sibling package.
package sig
