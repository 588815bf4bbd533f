// Package encoding provides the reversible URL-safe text codec used to embed
// structured payloads in storage values and URL query parameters.
//
// The alphabet is base64url without padding, so encoded output needs no
// further escaping in a query string. The codec carries no security property;
// integrity comes from the signature layered on top.
package encoding
