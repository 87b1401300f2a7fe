package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

// SessionTokenBytes is the entropy of a session token.
const SessionTokenBytes = 32

var tokenFormatRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// GenerateSessionToken returns a random hex session token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidTokenFormat reports whether token looks like a session token.
// Malformed cookies are rejected without a store lookup.
func ValidTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}

// TokenKey derives the storage key for a token so raw tokens never sit in
// the session store.
func TokenKey(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:16])
}
