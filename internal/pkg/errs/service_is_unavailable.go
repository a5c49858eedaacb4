package errs

import (
	"errors"
	"fmt"
)

// ErrServiceIsUnavailable is the sentinel for backing services that failed or timed out.
// Callers may retry operations that fail with it.
var ErrServiceIsUnavailable = errors.New("service is unavailable")

// ServiceIsUnavailableError names the unavailable dependency.
type ServiceIsUnavailableError struct {
	ServiceName string
	Cause       error
}

// NewServiceIsUnavailableError creates a ServiceIsUnavailableError without a cause.
func NewServiceIsUnavailableError(serviceName string) *ServiceIsUnavailableError {
	return &ServiceIsUnavailableError{ServiceName: serviceName}
}

// NewServiceIsUnavailableErrorWithCause creates a ServiceIsUnavailableError carrying the driver error.
func NewServiceIsUnavailableErrorWithCause(serviceName string, cause error) *ServiceIsUnavailableError {
	return &ServiceIsUnavailableError{ServiceName: serviceName, Cause: cause}
}

func (e *ServiceIsUnavailableError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrServiceIsUnavailable, e.ServiceName), e.Cause)
}

func (e *ServiceIsUnavailableError) Unwrap() error {
	return ErrServiceIsUnavailable
}
