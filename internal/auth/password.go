package auth

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. Digests are only comparable against salts hashed
// with the same iteration count and key length.
const (
	hashIterations = 65536
	keyLength      = 16
	saltLength     = 16
)

// Hasher derives and verifies password digests with PBKDF2-HMAC-SHA1.
type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

// NewSalt returns a fresh random salt for one user.
func (h *Hasher) NewSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Hash derives the stored digest for a password and salt.
func (h *Hasher) Hash(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, hashIterations, keyLength, sha1.New)
}

// Verify recomputes the digest with the stored salt and compares it in
// constant time.
func (h *Hasher) Verify(password string, salt, digest []byte) bool {
	computed := h.Hash(password, salt)
	return subtle.ConstantTimeCompare(computed, digest) == 1
}
