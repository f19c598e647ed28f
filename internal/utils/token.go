package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateOpaqueToken returns a 64-character hex string from a CSPRNG, used
// as the persisted refresh-token credential.
func GenerateOpaqueToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
