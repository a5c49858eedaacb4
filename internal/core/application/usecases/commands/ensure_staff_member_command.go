package commands

import (
	"errors"

	"qrcafe/internal/core/domain/model/staff"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

// MinPasswordLength applies to provisioned staff passwords.
const MinPasswordLength = 8

var (
	ErrEnsureStaffMemberCommandIsNotConstructed = errors.New(
		"EnsureStaffMemberCommand must be created via NewEnsureStaffMemberCommand constructor",
	)
)

// EnsureStaffMemberCommand provisions a staff account if it does not exist yet.
// It is used at startup to bootstrap the first account.
type EnsureStaffMemberCommand struct { //nolint:recvcheck //using for validation
	username string
	password string
	role     string

	guard guard.ConstructorGuard
}

// NewEnsureStaffMemberCommand validates the account data. An empty role selects staff.DefaultRole.
func NewEnsureStaffMemberCommand(username, password, role string) (EnsureStaffMemberCommand, error) {
	cmd := EnsureStaffMemberCommand{
		username: staff.NormalizeUsername(username),
		password: password,
		role:     role,
		guard:    guard.NewConstructorGuard(),
	}

	var usernameErr, passwordErr error
	if cmd.username == "" {
		usernameErr = errs.NewValueIsRequiredError("username")
	}
	if len(password) < MinPasswordLength {
		passwordErr = errs.NewValueIsOutOfRangeError("password length", len(password), MinPasswordLength, 72)
	}
	if err := errors.Join(usernameErr, passwordErr); err != nil {
		return EnsureStaffMemberCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c EnsureStaffMemberCommand) Validate() error {
	return c.guard.Validate(ErrEnsureStaffMemberCommandIsNotConstructed)
}

func (c EnsureStaffMemberCommand) Username() string { return c.username }
func (c EnsureStaffMemberCommand) Password() string { return c.password }
func (c EnsureStaffMemberCommand) Role() string     { return c.role }
