// Package service contains the application services that sit between the
// HTTP handlers and the ports.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// generateID returns a new UUIDv7 string. v7 keeps inserts roughly
// append-ordered in the b-tree.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// generateRandomToken returns a URL-safe random token of n bytes.
func generateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashSHA256 returns the hex-encoded SHA-256 of s. Refresh tokens are
// stored hashed so a DB leak does not leak usable tokens.
func hashSHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
