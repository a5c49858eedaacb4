// Package cart holds the customer side of ordering: a cart that merges lines
// by item and the checkout flow that submits it.
package cart

import (
	"errors"
	"strings"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/pkg/errs"
)

// Line is one item in the cart with the price seen on the menu.
type Line struct {
	ItemID    kernel.UUID
	Name      string
	UnitPrice kernel.Money
	Quantity  int
	Image     string
}

func (l Line) Subtotal() kernel.Money {
	return l.UnitPrice.Times(l.Quantity)
}

// Cart keeps lines in the order they were first added. It is not safe for concurrent use.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add merges by ItemID: an item already in the cart gets its quantity increased.
func (c *Cart) Add(line Line) error {
	var nameErr, priceErr, quantityErr error
	if strings.TrimSpace(line.Name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if !line.UnitPrice.IsPositive() {
		priceErr = errs.NewValueIsInvalidError("unitPrice")
	}
	if line.Quantity < order.MinQuantity {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", line.Quantity, order.MinQuantity, order.MaxQuantity)
	}
	if err := errors.Join(line.ItemID.Validate(), nameErr, priceErr, quantityErr); err != nil {
		return err
	}

	if i := c.index(line.ItemID); i >= 0 {
		merged := c.lines[i].Quantity + line.Quantity
		if merged > order.MaxQuantity {
			return errs.NewValueIsOutOfRangeError("quantity", merged, order.MinQuantity, order.MaxQuantity)
		}
		c.lines[i].Quantity = merged
		return nil
	}

	if line.Quantity > order.MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", line.Quantity, order.MinQuantity, order.MaxQuantity)
	}
	c.lines = append(c.lines, line)
	return nil
}

// Decrement lowers the quantity by one and removes the line when it reaches zero.
func (c *Cart) Decrement(itemID kernel.UUID) error {
	i := c.index(itemID)
	if i < 0 {
		return errs.NewObjectNotFoundError("itemId", itemID.String())
	}
	c.lines[i].Quantity--
	if c.lines[i].Quantity < order.MinQuantity {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	return nil
}

func (c *Cart) Remove(itemID kernel.UUID) {
	if i := c.index(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() kernel.Money {
	total := kernel.ZeroMoney()
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) index(itemID kernel.UUID) int {
	for i, l := range c.lines {
		if l.ItemID.IsEqual(itemID) {
			return i
		}
	}
	return -1
}
