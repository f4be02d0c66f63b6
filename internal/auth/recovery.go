package auth

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// RecoveryCodeLength is the number of digits in a generated recovery code.
const RecoveryCodeLength = 8

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 12

var ErrInvalidRecoveryCode = errors.New("invalid recovery code")

// GenerateRecoveryCode creates a random numeric recovery code. The plain
// code is shown to the user once; only the hash is persisted on the account
// document.
func GenerateRecoveryCode() (string, error) {
	digits := make([]byte, RecoveryCodeLength)
	random := make([]byte, RecoveryCodeLength)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("generate recovery code: %w", err)
	}
	for i, b := range random {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}

// HashRecoveryCode creates a bcrypt hash of the recovery code for storage.
func HashRecoveryCode(code string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckRecoveryCode compares a recovery code with its stored hash.
func CheckRecoveryCode(code, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidRecoveryCode
		}
		return err
	}
	return nil
}
