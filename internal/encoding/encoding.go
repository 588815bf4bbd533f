package encoding

import "encoding/base64"

// EncodeURLSafe encodes text into the unpadded base64url alphabet.
// Round-trip exact for arbitrary UTF-8 input, including the empty string.
func EncodeURLSafe(text string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(text))
}

// DecodeURLSafe reverses EncodeURLSafe. It returns an error for input that is
// not valid unpadded base64url.
func DecodeURLSafe(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
