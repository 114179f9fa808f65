package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost is the bcrypt work factor for stored password hashes.
	PasswordCost = 12

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword compares password with a stored bcrypt hash. A mismatch
// yields common.ErrorUnauthorized, as does a password no stored hash can
// match because it exceeds MaxPasswordBytes.
func CheckPassword(hash, password string) error {
	if len(password) > MaxPasswordBytes {
		return common.ErrorUnauthorized
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorUnauthorized
	}
	return err
}
