package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateAuthToken returns a 32-character hex bearer token.
func GenerateAuthToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
