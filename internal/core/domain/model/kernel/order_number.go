package kernel

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"qrcafe/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	orderNumberPrefix = "ORD-"

	// orderNumberSuffixLen hex characters of randomness (48 bits) follow the date
	// part, which keeps same-day collisions negligible at restaurant volumes.
	orderNumberSuffixLen = 12
)

var orderNumberPattern = regexp.MustCompile(`^ORD-[0-9A-Z][0-9A-Z-]{0,36}$`)

// OrderNumber is the human-facing order identifier shown to customers and staff,
// e.g. "ORD-261016-9F3A1C2B7D4E". It is assigned once at creation and never changes.
type OrderNumber struct {
	value string
}

// NewOrderNumber derives a fresh identifier from the creation date and random bits.
func NewOrderNumber(at time.Time) OrderNumber {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return OrderNumber{
		value: fmt.Sprintf("%s%s-%s", orderNumberPrefix, at.UTC().Format("060102"), random[:orderNumberSuffixLen]),
	}
}

// OrderNumberFromString parses an identifier received from a client or the database.
func OrderNumberFromString(s string) (OrderNumber, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return OrderNumber{}, errs.NewValueIsRequiredError("orderId")
	}
	if !orderNumberPattern.MatchString(s) {
		return OrderNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"orderId", fmt.Errorf("%q is not a valid order number", s),
		)
	}
	return OrderNumber{value: s}, nil
}

// String returns the identifier text.
func (n OrderNumber) String() string {
	return n.value
}

// IsEqual compares two identifiers.
func (n OrderNumber) IsEqual(other OrderNumber) bool {
	return n.value == other.value
}

// Validate rejects the zero value.
func (n OrderNumber) Validate() error {
	if n.value == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	return nil
}

// OrderNumberGeneratorFunc adapts a function to the order number generator port.
type OrderNumberGeneratorFunc func(at time.Time) OrderNumber

// Next calls f.
func (f OrderNumberGeneratorFunc) Next(at time.Time) OrderNumber {
	return f(at)
}

// RandomOrderNumberGenerator is the production generator.
var RandomOrderNumberGenerator = OrderNumberGeneratorFunc(NewOrderNumber)
