package credential

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Interface to create or verify password hashes
type Hasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Check user provided password against known hash
	// Must be protected against timing attacks
	Verify(password string, hash string) bool
}

var DefaultHasher Hasher = BcryptHasher{Cost: bcrypt.DefaultCost}

// Bcrypt password hasher
// Password is pre-hashed with sha256, so bcrypt 72 bytes limit does not truncate long passwords
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}

	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], h.Cost)
	return string(hash), err
}

func (h BcryptHasher) Verify(password string, hash string) bool {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hash), sum[:]) == nil
}
