package sig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// TagLength is the length of a hex-encoded tag: 32 digest bytes, 64 hex chars.
const TagLength = 2 * sha256.Size

// Sign computes the HMAC-SHA256 tag of message under secret and returns it
// as lowercase hex.
func Sign(message, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the tag for message under secret and compares it against
// tag in constant time. A tag of the wrong length never matches.
func Verify(message []byte, tag string, secret []byte) bool {
	expected := Sign(message, secret)
	return hmac.Equal([]byte(expected), []byte(tag))
}
