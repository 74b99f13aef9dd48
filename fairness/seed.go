// Package fairness implements the commit-reveal scheme behind every shuffle
// and roulette spin: the server commits to a secret seed by publishing its
// SHA-256 hash before any bet is accepted, and reveals the seed afterwards so
// players can reproduce the outcome byte for byte.
package fairness

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// GenerateServerSeed returns 32 bytes of crypto/rand entropy, hex encoded.
func GenerateServerSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate server seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashSeed returns the hex SHA-256 commitment for a seed.
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// VerifySeed reports whether a revealed seed matches its earlier commitment.
func VerifySeed(seed, hash string) bool {
	computed := HashSeed(seed)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
