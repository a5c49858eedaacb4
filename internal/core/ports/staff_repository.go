package ports

import (
	"context"
	"time"

	"qrcafe/internal/core/domain/model/staff"
)

// StaffRepository stores staff accounts.
type StaffRepository interface {
	// Add inserts a member. Returns ObjectAlreadyExistsError on a duplicate username.
	Add(ctx context.Context, member *staff.Member) error

	// GetByUsername looks up a member by normalized username.
	// Returns ObjectNotFoundError when there is none.
	GetByUsername(ctx context.Context, username string) (*staff.Member, error)
}

// PasswordHasher hashes and verifies staff passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns CredentialsAreInvalidError when password does not match hash.
	Compare(hash, password string) error
}

// TokenIssuer signs bearer tokens for authenticated staff.
type TokenIssuer interface {
	Issue(member *staff.Member) (token string, expiresAt time.Time, err error)
}
