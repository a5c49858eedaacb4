package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

const maxNotesLength = 500

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")
)

// Order is a customer's submission from a table. It is the aggregate root of the
// ordering context and owns the lifecycle state machine.
//
// Order follows these invariants:
//   - The order number is set once and never changes
//   - There is at least one line item
//   - Total equals the sum of unitPrice × quantity and is greater than 0
//   - Status only moves along the edges defined by Status.TransitionTo
//   - createdAt never changes and updatedAt is never before createdAt
//
// Orders are never deleted.
type Order struct {
	// number is the human-facing identifier, e.g. ORD-250101-1A2B3C4D5E6F
	number kernel.OrderNumber

	customer Customer
	table    Table

	// lineItems are price snapshots taken at submission
	lineItems []LineItem

	// total is computed once at creation and is authoritative afterwards
	total kernel.Money

	status Status
	notes  string

	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder validates the inputs and creates a Pending order. The total is
// computed from the line items.
//
// Example:
//
//	customer, _ := order.NewCustomer("Ann", "+1 555 0100")
//	latte, _ := order.NewLineItem(menuID, "Latte", kernel.MustMoney("4.50"), 2, "")
//	o, err := order.NewOrder(number, customer, "T4", []order.LineItem{latte}, "", time.Now())
func NewOrder(
	number kernel.OrderNumber,
	customer Customer,
	table Table,
	lineItems []LineItem,
	notes string,
	createdAt time.Time,
) (*Order, error) {
	at := createdAt.UTC()
	o := &Order{
		status:    Pending,
		createdAt: at,
		updatedAt: at,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setNumber(number),
		o.setCustomer(customer),
		o.setTable(table),
		o.setLineItems(lineItems),
		o.setNotes(notes),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	o.total = ComputeTotal(o.lineItems)
	return o, nil
}

// RestoreOrder rebuilds an order from persistence. The stored total is kept as-is.
func RestoreOrder(
	number kernel.OrderNumber,
	customer Customer,
	table Table,
	lineItems []LineItem,
	total kernel.Money,
	status Status,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		total:     total,
		status:    status,
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	var totalErr error
	if !total.IsPositive() {
		totalErr = errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s is not greater than 0", total))
	}

	var updatedAtErr error
	if o.updatedAt.Before(o.createdAt) {
		updatedAtErr = errs.NewValueIsInvalidErrorWithCause(
			"updatedAt", fmt.Errorf("%s is before createdAt %s", o.updatedAt, o.createdAt),
		)
	}

	if err := errors.Join(
		o.setNumber(number),
		o.setCustomer(customer),
		o.setTable(table),
		o.setLineItems(lineItems),
		o.setNotes(notes),
		o.setCreatedAt(createdAt),
		status.Validate(),
		totalErr,
		updatedAtErr,
	); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate ensures the Order instance was created through one of its constructors.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by order number.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.number.IsEqual(other.number)
}

// Number returns the order identifier.
func (o *Order) Number() kernel.OrderNumber { return o.number }

// Customer returns who placed the order.
func (o *Order) Customer() Customer { return o.customer }

// Table returns the table the order came from.
func (o *Order) Table() Table { return o.table }

// LineItems returns a copy of the line items.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// Total returns the order total.
func (o *Order) Total() kernel.Money { return o.total }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Notes returns free-form customer notes, possibly empty.
func (o *Order) Notes() string { return o.notes }

// CreatedAt returns the submission time.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the time of the last persisted mutation.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// ChangeStatus moves the order to target and stamps updatedAt with at.
// On error the order is left unchanged.
//
// Returns:
//   - nil when the current status has an edge to target
//   - ValueIsInvalidError when target is not a lifecycle status
//   - TransitionIsInvalidError otherwise
//
// at earlier than createdAt is clamped so updatedAt never precedes createdAt.
func (o *Order) ChangeStatus(target Status, at time.Time) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	at = at.UTC()
	if at.Before(o.createdAt) {
		at = o.createdAt
	}

	o.status = next
	o.updatedAt = at
	return nil
}

func (o *Order) setNumber(number kernel.OrderNumber) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setCustomer(customer Customer) error {
	if customer.name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	if customer.phone == "" {
		return errs.NewValueIsRequiredError("customerPhone")
	}
	o.customer = customer
	return nil
}

func (o *Order) setTable(table Table) error {
	t, err := NewTable(string(table))
	if err != nil {
		return err
	}
	o.table = t
	return nil
}

func (o *Order) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	for i, item := range items {
		if item.quantity < MinQuantity || !item.unitPrice.IsPositive() || item.name == "" {
			return errs.NewValueIsInvalidErrorWithCause(
				"lineItems", fmt.Errorf("item %d was not created via NewLineItem", i),
			)
		}
	}
	o.lineItems = make([]LineItem, len(items))
	copy(o.lineItems, items)
	return nil
}

func (o *Order) setNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > maxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, maxNotesLength)
	}
	o.notes = notes
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	return nil
}
