package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates size random bytes and returns them hex encoded,
// so the resulting string is twice as long as size.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of b with zeros. It is used to drop
// passwords read from the terminal as soon as they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
