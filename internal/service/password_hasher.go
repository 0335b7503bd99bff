package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher transforma contraseñas en verificadores y los compara.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, verifier string) (bool, error)
}

var (
	ErrHashing      = errors.New("password hashing failed")
	ErrVerification = errors.New("password verifier malformed")
)

const passwordCost = 10

// BcryptHasher usa bcrypt con costo fijo 10.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: passwordCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %w", ErrHashing, ErrInternal, err)
	}
	return string(hashBytes), nil
}

// Verify devuelve false sin error cuando la contraseña no coincide; solo un
// verificador mal formado produce error.
func (h *BcryptHasher) Verify(plaintext, verifier string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(verifier), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w: %w", ErrVerification, ErrInternal, err)
	}
}
