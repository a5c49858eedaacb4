package order

import (
	"errors"
	"fmt"
	"strings"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/pkg/errs"
)

const (
	// MinQuantity is the smallest quantity a line can carry.
	MinQuantity = 1
	// MaxQuantity caps a single line.
	MaxQuantity = 100

	maxItemNameLength = 120
)

// LineItem is one menu item within an order. Name and unit price are a snapshot
// taken at submission time; later catalog changes never alter a placed order.
type LineItem struct {
	itemID    kernel.UUID
	name      string
	unitPrice kernel.Money
	quantity  int
	image     string
}

// NewLineItem validates and creates a line item. All field errors are reported together.
func NewLineItem(itemID kernel.UUID, name string, unitPrice kernel.Money, quantity int, image string) (LineItem, error) {
	item := LineItem{
		itemID:    itemID,
		name:      strings.TrimSpace(name),
		unitPrice: unitPrice,
		quantity:  quantity,
		image:     strings.TrimSpace(image),
	}

	var nameErr error
	switch {
	case item.name == "":
		nameErr = errs.NewValueIsRequiredError("lineItems.name")
	case len(item.name) > maxItemNameLength:
		nameErr = errs.NewValueIsOutOfRangeError("lineItems.name length", len(item.name), 1, maxItemNameLength)
	}

	var priceErr error
	if !unitPrice.IsPositive() {
		priceErr = errs.NewValueIsInvalidErrorWithCause(
			"lineItems.unitPrice", fmt.Errorf("%s is not greater than 0", unitPrice),
		)
	}

	var quantityErr error
	if quantity < MinQuantity || quantity > MaxQuantity {
		quantityErr = errs.NewValueIsOutOfRangeError("lineItems.quantity", quantity, MinQuantity, MaxQuantity)
	}

	if err := errors.Join(itemID.Validate(), nameErr, priceErr, quantityErr); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// ItemID returns the menu item the line was created from.
func (l LineItem) ItemID() kernel.UUID { return l.itemID }

// Name returns the item name snapshot.
func (l LineItem) Name() string { return l.name }

// UnitPrice returns the unit price snapshot.
func (l LineItem) UnitPrice() kernel.Money { return l.unitPrice }

// Quantity returns how many units were ordered.
func (l LineItem) Quantity() int { return l.quantity }

// Image returns the image URL snapshot, possibly empty.
func (l LineItem) Image() string { return l.image }

// Subtotal returns unitPrice × quantity.
func (l LineItem) Subtotal() kernel.Money {
	return l.unitPrice.Times(l.quantity)
}

// ComputeTotal sums the subtotals of items.
func ComputeTotal(items []LineItem) kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
