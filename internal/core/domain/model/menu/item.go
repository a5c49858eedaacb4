package menu

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

// DefaultPreparationTime applies when an item has no preparation time set.
const DefaultPreparationTime = 10 * time.Minute

var ErrItemIsNotConstructed = errors.New("menu item must be created via NewItem")

// Item is an entry of the menu. Items are read-only for this service; orders copy
// name and price from them at submission time.
type Item struct {
	id              kernel.UUID
	name            string
	description     string
	price           kernel.Money
	category        Category
	image           string
	available       bool
	preparationTime time.Duration

	guard guard.ConstructorGuard
}

// NewItem validates and creates a menu item. A zero preparationTime falls back to
// DefaultPreparationTime.
func NewItem(
	id kernel.UUID,
	name string,
	description string,
	price kernel.Money,
	category Category,
	image string,
	available bool,
	preparationTime time.Duration,
) (*Item, error) {
	item := &Item{
		id:              id,
		name:            strings.TrimSpace(name),
		description:     strings.TrimSpace(description),
		price:           price,
		category:        category,
		image:           strings.TrimSpace(image),
		available:       available,
		preparationTime: preparationTime,
		guard:           guard.NewConstructorGuard(),
	}
	if item.preparationTime == 0 {
		item.preparationTime = DefaultPreparationTime
	}

	var nameErr error
	if item.name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	var priceErr error
	if !price.IsPositive() {
		priceErr = errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is not greater than 0", price))
	}
	var prepErr error
	if item.preparationTime < 0 {
		prepErr = errs.NewValueIsInvalidErrorWithCause("preparationTime", fmt.Errorf("%s is negative", preparationTime))
	}

	if err := errors.Join(id.Validate(), nameErr, priceErr, category.Validate(), prepErr); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID                { return i.id }
func (i *Item) Name() string                   { return i.name }
func (i *Item) Description() string            { return i.description }
func (i *Item) Price() kernel.Money            { return i.price }
func (i *Item) Category() Category             { return i.category }
func (i *Item) Image() string                  { return i.image }
func (i *Item) IsAvailable() bool              { return i.available }
func (i *Item) PreparationTime() time.Duration { return i.preparationTime }
