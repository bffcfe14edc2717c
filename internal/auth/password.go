package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidAdminKey is returned when an admin registration key does not match.
var ErrInvalidAdminKey = errors.New("invalid admin registration key")

// HashPassword hashes a plaintext secret with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a secret against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// AdminKeyChecker gates admin registration behind a shared key. An empty hash
// leaves admin registration open.
type AdminKeyChecker struct {
	hash string
}

// NewAdminKeyChecker constructs a checker for the bcrypt hash.
func NewAdminKeyChecker(hash string) *AdminKeyChecker {
	return &AdminKeyChecker{hash: hash}
}

// Check verifies key against the configured hash.
func (a *AdminKeyChecker) Check(key string) error {
	if a == nil || a.hash == "" {
		return nil
	}
	if err := ComparePassword(a.hash, key); err != nil {
		return ErrInvalidAdminKey
	}
	return nil
}
