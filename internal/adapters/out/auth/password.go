// Package auth holds the credential adapters for staff accounts: bcrypt
// password hashing and HS256 bearer tokens.
package auth

import (
	"errors"

	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when BcryptHasher is created with a cost outside bcrypt's range.
const DefaultBcryptCost = bcrypt.DefaultCost

// BcryptHasher implements ports.PasswordHasher.
type BcryptHasher struct {
	cost int
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errs.NewValueIsRequiredError("password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errs.NewValueIsInvalidErrorWithCause("password", err)
		}
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	return errs.NewCredentialsAreInvalidError(err)
}
