package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const claimTokenBytes = 32

// GenerateClaimToken returns a fresh 64-character hex token from a
// cryptographically strong source. Collision probability at this length is
// negligible, so issuers treat the value as unique without a re-check.
func GenerateClaimToken() (string, error) {
	buf := make([]byte, claimTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate claim token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
