// Package access implements the binary edit check: each microsite has one
// edit key, hashed at rest, and presenting it grants editing. There are no
// roles and no user accounts.
package access

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrWrongKey is returned when the presented edit key does not match.
var ErrWrongKey = errors.New("edit key does not match")

// NewEditKey generates a fresh edit key to hand to the site owner once,
// at creation time.
func NewEditKey() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate edit key: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// HashEditKey produces the stored form of an edit key.
func HashEditKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash edit key: %w", err)
	}
	return string(hash), nil
}

// CheckEditKey compares a presented key against the stored hash.
func CheckEditKey(hash, key string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return ErrWrongKey
	}
	return nil
}
