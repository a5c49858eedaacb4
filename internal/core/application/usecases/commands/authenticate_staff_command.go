package commands

import (
	"errors"

	"qrcafe/internal/core/domain/model/staff"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

var (
	ErrAuthenticateStaffCommandIsNotConstructed = errors.New(
		"AuthenticateStaffCommand must be created via NewAuthenticateStaffCommand constructor",
	)
)

// AuthenticateStaffCommand carries login credentials.
type AuthenticateStaffCommand struct { //nolint:recvcheck //using for validation
	username string
	password string

	guard guard.ConstructorGuard
}

// NewAuthenticateStaffCommand requires both fields to be non-blank.
func NewAuthenticateStaffCommand(username, password string) (AuthenticateStaffCommand, error) {
	cmd := AuthenticateStaffCommand{
		username: staff.NormalizeUsername(username),
		password: password,
		guard:    guard.NewConstructorGuard(),
	}

	var usernameErr, passwordErr error
	if cmd.username == "" {
		usernameErr = errs.NewValueIsRequiredError("username")
	}
	if password == "" {
		passwordErr = errs.NewValueIsRequiredError("password")
	}
	if err := errors.Join(usernameErr, passwordErr); err != nil {
		return AuthenticateStaffCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AuthenticateStaffCommand) Validate() error {
	return c.guard.Validate(ErrAuthenticateStaffCommandIsNotConstructed)
}

func (c AuthenticateStaffCommand) Username() string { return c.username }
func (c AuthenticateStaffCommand) Password() string { return c.password }
