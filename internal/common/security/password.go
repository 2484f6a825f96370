package security

import (
	"errors"
	"fmt"

	"freecode/internal/common"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the cost the stored hashes were created with.
const PasswordCost = 10

// HashPassword fails with common.ErrPasswordTooLong for passwords bcrypt
// cannot take (longer than 72 bytes).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", common.ErrPasswordTooLong, err)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash compares in constant time. Malformed hashes never match.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
