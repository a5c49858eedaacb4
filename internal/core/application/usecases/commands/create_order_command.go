package commands

import (
	"errors"
	"fmt"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// TotalTolerance is the largest accepted difference between a client supplied
// total and the total computed from the line items.
var TotalTolerance = kernel.MustMoney("0.01")

// LineItemInput is an unvalidated line as submitted by a customer.
type LineItemInput struct {
	ItemID    string
	Name      string
	UnitPrice kernel.Money
	Quantity  int
	Image     string
}

// CreateOrderCommand represents a customer's submission from a table.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("Ann", "+1 555 0100", "T4", []LineItemInput{
//	    {ItemID: latteID, Name: "Latte", UnitPrice: kernel.MustMoney("4.50"), Quantity: 2},
//	}, "", nil)
//	if err != nil {
//	    return err // validation error, nothing was stored
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customer  order.Customer
	table     order.Table
	lineItems []order.LineItem
	notes     string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates a submission. clientTotal is optional; when
// present it must match the computed total within TotalTolerance.
func NewCreateOrderCommand(
	customerName string,
	customerPhone string,
	table string,
	lineItems []LineItemInput,
	notes string,
	clientTotal *kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomer(customerName, customerPhone),
		cmd.setTable(table),
		cmd.setLineItems(lineItems),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	if clientTotal != nil {
		computed := order.ComputeTotal(cmd.lineItems)
		if !clientTotal.WithinTolerance(computed, TotalTolerance) {
			return CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause(
				"total", fmt.Errorf("%s does not match line items total %s", clientTotal, computed),
			)
		}
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Customer() order.Customer { return c.customer }
func (c CreateOrderCommand) Table() order.Table       { return c.table }
func (c CreateOrderCommand) Notes() string            { return c.notes }

// LineItems returns a copy of the validated line items.
func (c CreateOrderCommand) LineItems() []order.LineItem {
	items := make([]order.LineItem, len(c.lineItems))
	copy(items, c.lineItems)
	return items
}

func (c *CreateOrderCommand) setCustomer(name, phone string) error {
	customer, err := order.NewCustomer(name, phone)
	if err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *CreateOrderCommand) setTable(table string) error {
	t, err := order.NewTable(table)
	if err != nil {
		return err
	}
	c.table = t
	return nil
}

func (c *CreateOrderCommand) setLineItems(inputs []LineItemInput) error {
	if len(inputs) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}

	items := make([]order.LineItem, 0, len(inputs))
	var itemErrs []error
	for i, in := range inputs {
		itemID, err := kernel.UUIDFromString(in.ItemID)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("line %d: %w", i, err))
			continue
		}
		item, err := order.NewLineItem(itemID, in.Name, in.UnitPrice, in.Quantity, in.Image)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("line %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(itemErrs...); err != nil {
		return err
	}

	c.lineItems = items
	return nil
}
