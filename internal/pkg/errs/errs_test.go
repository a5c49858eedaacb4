package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"qrcafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "ORD-1")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "ORD-1", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: order ORD-1", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("order", "ORD-1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "object not found: order ORD-1 (cause: record not found)", err.Error())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("menuItem", 456)
		assert.Equal(t, "object not found: menuItem 456", err.Error())
	})
}

func TestObjectAlreadyExistsError(t *testing.T) {
	err := errs.NewObjectAlreadyExistsErrorWithCause("order", "ORD-1", errors.New("duplicate key"))

	assert.Equal(t, "object already exists: order ORD-1 (cause: duplicate key)", err.Error())
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("unknown status")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: unknown status)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 0, 1, 99)

		assert.Equal(t, "quantity", err.ParamName)
		assert.Equal(t, 0, err.Value)
		assert.Equal(t, 1, err.Min)
		assert.Equal(t, 99, err.Max)
		assert.Equal(t, "value is out of range: quantity is 0, min value is 1, max value is 99", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("customerName")

	assert.Equal(t, "value is required: customerName", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
}

func TestTransitionIsInvalidError(t *testing.T) {
	err := errs.NewTransitionIsInvalidError("pending", "ready")

	assert.Equal(t, "pending", err.From)
	assert.Equal(t, "ready", err.To)
	assert.Equal(t, "transition is invalid: pending -> ready", err.Error())
	require.ErrorIs(t, err, errs.ErrTransitionIsInvalid)
}

func TestServiceIsUnavailableError(t *testing.T) {
	err := errs.NewServiceIsUnavailableErrorWithCause("order store", errors.New("context deadline exceeded"))

	assert.Equal(t, "service is unavailable: order store (cause: context deadline exceeded)", err.Error())
	require.ErrorIs(t, err, errs.ErrServiceIsUnavailable)
}

func TestCredentialsAreInvalidError(t *testing.T) {
	err := errs.NewCredentialsAreInvalidError(errors.New("password mismatch"))

	require.ErrorIs(t, err, errs.ErrCredentialsAreInvalid)
	assert.Contains(t, err.Error(), "password mismatch")
}

func TestIsValidation(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"required", errs.NewValueIsRequiredError("table"), true},
		{"invalid", errs.NewValueIsInvalidError("total"), true},
		{"out of range", errs.NewValueIsOutOfRangeError("quantity", 0, 1, 99), true},
		{"joined", errors.Join(errs.NewValueIsRequiredError("table"), errs.NewValueIsInvalidError("total")), true},
		{"wrapped", fmt.Errorf("create order: %w", errs.NewValueIsInvalidError("total")), true},
		{"not found", errs.NewObjectNotFoundError("order", "x"), false},
		{"transition", errs.NewTransitionIsInvalidError("completed", "ready"), false},
		{"plain", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errs.IsValidation(tc.err))
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "object already exists", errs.ErrObjectAlreadyExists.Error())
	assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
	assert.Equal(t, "transition is invalid", errs.ErrTransitionIsInvalid.Error())
	assert.Equal(t, "service is unavailable", errs.ErrServiceIsUnavailable.Error())
	assert.Equal(t, "credentials are invalid", errs.ErrCredentialsAreInvalid.Error())
}
