// Package auth implements the credential and token primitives of the
// server: password hashing/verification and JWT issuance/verification.
// It has no storage dependencies; revocation is layered on top by the
// HTTP middleware.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize       = 16
	hashIterations = 100_000
	hashKeyLength  = 32
)

// HashPassword derives a password verifier from the plaintext password.
//
// A fresh random 16-byte salt is generated per call, so hashing the same
// password twice yields different verifiers. The digest is
// PBKDF2-HMAC-SHA256 with 100000 iterations, and the stored form is
// "<hex salt>:<hex digest>". An error is returned only if the system
// entropy source fails.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	digest := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLength, sha256.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword reports whether password matches the stored verifier.
//
// A malformed verifier yields false rather than an error, so a corrupt
// stored record is indistinguishable from a wrong password from the
// outside. The digest comparison is constant-time.
func VerifyPassword(verifier string, password string) bool {
	saltHex, digestHex, ok := strings.Cut(verifier, ":")
	if !ok {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil || len(salt) == 0 || len(digest) == 0 {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), salt, hashIterations, len(digest), sha256.New)

	return subtle.ConstantTimeCompare(candidate, digest) == 1
}
