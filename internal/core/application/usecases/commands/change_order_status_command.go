package commands

import (
	"errors"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
)

// ChangeOrderStatusCommand asks to move an order to a new lifecycle status.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderNumber
	target  order.Status

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand parses the order id and the wire name of the target status.
func NewChangeOrderStatusCommand(orderID string, target string) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.OrderNumber { return c.orderID }
func (c ChangeOrderStatusCommand) Target() order.Status        { return c.target }

// setOrderID treats a malformed id as an unknown order: no stored order can carry it.
func (c *ChangeOrderStatusCommand) setOrderID(orderID string) error {
	number, err := kernel.OrderNumberFromString(orderID)
	if errors.Is(err, errs.ErrValueIsInvalid) {
		return errs.NewObjectNotFoundErrorWithCause("orderId", orderID, err)
	}
	if err != nil {
		return err
	}
	c.orderID = number
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target string) error {
	status, err := order.ParseStatus(target)
	if err != nil {
		return err
	}
	c.target = status
	return nil
}
