package cart

import (
	"context"
	"errors"
	"strings"

	"qrcafe/internal/client"
	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/pkg/errs"
)

// Stage is a step of the checkout flow.
type Stage int

const (
	CollectingIdentity Stage = iota
	BrowsingMenu
	Reviewing
	Confirmed
)

func (s Stage) String() string {
	switch s {
	case CollectingIdentity:
		return "collectingIdentity"
	case BrowsingMenu:
		return "browsingMenu"
	case Reviewing:
		return "reviewing"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Submitter places an order. *client.APIClient implements it.
type Submitter interface {
	SubmitOrder(ctx context.Context, submission client.OrderRequest) (readmodel.OrderView, error)
}

var _ Submitter = (*client.APIClient)(nil)

// Checkout walks a customer from identity to a confirmed order:
//
//	collectingIdentity -> browsingMenu -> reviewing -> confirmed
//
// Back moves one step towards the start. A failed submission stays in
// reviewing with the cart intact.
type Checkout struct {
	stage     Stage
	table     string
	name      string
	phone     string
	notes     string
	cart      *Cart
	confirmed *readmodel.OrderView
}

// NewCheckout starts a flow for the table encoded in the scanned code.
func NewCheckout(table string) *Checkout {
	return &Checkout{
		table: strings.TrimSpace(table),
		cart:  New(),
	}
}

func (c *Checkout) Stage() Stage { return c.stage }
func (c *Checkout) Cart() *Cart  { return c.cart }
func (c *Checkout) Table() string {
	return c.table
}

// SetIdentity records the customer and opens the menu.
func (c *Checkout) SetIdentity(name, phone string) error {
	if c.stage != CollectingIdentity {
		return errs.NewTransitionIsInvalidError(c.stage.String(), BrowsingMenu.String())
	}
	customer, err := order.NewCustomer(name, phone)
	if err != nil {
		return err
	}
	c.name = customer.Name()
	c.phone = customer.Phone()
	c.stage = BrowsingMenu
	return nil
}

func (c *Checkout) SetNotes(notes string) {
	c.notes = strings.TrimSpace(notes)
}

// Review moves from the menu to the order summary.
func (c *Checkout) Review() error {
	if c.stage != BrowsingMenu {
		return errs.NewTransitionIsInvalidError(c.stage.String(), Reviewing.String())
	}
	if c.cart.IsEmpty() {
		return errs.NewValueIsRequiredError("lineItems")
	}
	c.stage = Reviewing
	return nil
}

func (c *Checkout) Back() error {
	switch c.stage {
	case BrowsingMenu:
		c.stage = CollectingIdentity
	case Reviewing:
		c.stage = BrowsingMenu
	default:
		return errs.NewTransitionIsInvalidError(c.stage.String(), "previous")
	}
	return nil
}

// Submit sends the cart. On success the cart is cleared and the flow is confirmed.
func (c *Checkout) Submit(ctx context.Context, submitter Submitter) (readmodel.OrderView, error) {
	if c.stage != Reviewing {
		return readmodel.OrderView{}, errs.NewTransitionIsInvalidError(c.stage.String(), Confirmed.String())
	}

	var cartErr, tableErr, identityErr error
	if c.cart.IsEmpty() {
		cartErr = errs.NewValueIsRequiredError("lineItems")
	}
	if c.table == "" {
		tableErr = errs.NewValueIsRequiredError("table")
	}
	if c.name == "" || c.phone == "" {
		identityErr = errs.NewValueIsRequiredError("customer")
	}
	if err := errors.Join(cartErr, tableErr, identityErr); err != nil {
		return readmodel.OrderView{}, err
	}

	created, err := submitter.SubmitOrder(ctx, c.request())
	if err != nil {
		return readmodel.OrderView{}, err
	}

	c.cart.Clear()
	c.confirmed = &created
	c.stage = Confirmed
	return created, nil
}

// Confirmation returns the submitted order once the flow is confirmed.
func (c *Checkout) Confirmation() (readmodel.OrderView, bool) {
	if c.confirmed == nil {
		return readmodel.OrderView{}, false
	}
	return *c.confirmed, true
}

// Reset starts a new order at the same table.
func (c *Checkout) Reset() {
	table := c.table
	*c = Checkout{table: table, cart: New()}
}

func (c *Checkout) request() client.OrderRequest {
	lines := c.cart.Lines()
	items := make([]client.LineItemRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, client.LineItemRequest{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}
	total := c.cart.Subtotal()
	return client.OrderRequest{
		CustomerName:  c.name,
		CustomerPhone: c.phone,
		Table:         c.table,
		LineItems:     items,
		Notes:         c.notes,
		Total:         &total,
	}
}
