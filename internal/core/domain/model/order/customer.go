package order

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"qrcafe/internal/pkg/errs"
)

const (
	maxCustomerNameLength = 100
	maxTableLength        = 16
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{3,32}$`)

// Customer identifies who placed an order. It is captured once at submission.
type Customer struct {
	name  string
	phone string
}

// NewCustomer validates and creates a Customer. Both fields are required.
func NewCustomer(name, phone string) (Customer, error) {
	c := Customer{
		name:  strings.TrimSpace(name),
		phone: strings.TrimSpace(phone),
	}

	var nameErr error
	switch {
	case c.name == "":
		nameErr = errs.NewValueIsRequiredError("customerName")
	case len(c.name) > maxCustomerNameLength:
		nameErr = errs.NewValueIsOutOfRangeError("customerName length", len(c.name), 1, maxCustomerNameLength)
	}

	var phoneErr error
	switch {
	case c.phone == "":
		phoneErr = errs.NewValueIsRequiredError("customerPhone")
	case !phonePattern.MatchString(c.phone):
		phoneErr = errs.NewValueIsInvalidErrorWithCause(
			"customerPhone", fmt.Errorf("%q is not a phone number", c.phone),
		)
	}

	if err := errors.Join(nameErr, phoneErr); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Name returns the customer's name.
func (c Customer) Name() string { return c.name }

// Phone returns the customer's contact phone.
func (c Customer) Phone() string { return c.phone }

// Table identifies the table an order originates from, as encoded in the table's QR code.
type Table string

// NewTable validates a table identifier.
func NewTable(s string) (Table, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errs.NewValueIsRequiredError("table")
	}
	if len(t) > maxTableLength {
		return "", errs.NewValueIsOutOfRangeError("table length", len(t), 1, maxTableLength)
	}
	return Table(t), nil
}

// String returns the table identifier.
func (t Table) String() string { return string(t) }
