package errs

import "errors"

// ErrCredentialsAreInvalid is returned when a username/password pair or a bearer token is rejected.
var ErrCredentialsAreInvalid = errors.New("credentials are invalid")

// CredentialsAreInvalidError wraps the reason authentication failed.
// The reason is kept for logs only and never rendered to clients.
type CredentialsAreInvalidError struct {
	Cause error
}

// NewCredentialsAreInvalidError creates a CredentialsAreInvalidError.
func NewCredentialsAreInvalidError(cause error) *CredentialsAreInvalidError {
	return &CredentialsAreInvalidError{Cause: cause}
}

func (e *CredentialsAreInvalidError) Error() string {
	return withCause(ErrCredentialsAreInvalid.Error(), e.Cause)
}

func (e *CredentialsAreInvalidError) Unwrap() error {
	return ErrCredentialsAreInvalid
}
