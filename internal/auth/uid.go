package auth

import (
	"encoding/base64"
	"fmt"
)

// EncodeUID encodes a user id for use in a URL path segment.
func EncodeUID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

// DecodeUID reverses EncodeUID. Padded input is accepted.
func DecodeUID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty uid")
	}
	for len(s)%4 != 0 {
		s += "="
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("failed to decode uid: %w", err)
	}
	return string(b), nil
}
