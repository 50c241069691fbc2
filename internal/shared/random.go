// Package shared provides helpers for generating and discarding secrets.
package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n random bytes hex-encoded, so the result has 2n
// characters.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	clear(b)
}
