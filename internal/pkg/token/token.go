package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// New generates a cryptographically random URL-safe verification token
// carrying 32 bytes of entropy.
func New() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
