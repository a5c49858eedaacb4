package menu

import (
	"fmt"
	"strings"

	"qrcafe/internal/pkg/errs"
)

// Category groups menu items for browsing.
type Category string

const (
	Coffee    Category = "coffee"
	Tea       Category = "tea"
	Pastry    Category = "pastry"
	Sandwich  Category = "sandwich"
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Dinner    Category = "dinner"
)

// Categories lists every category in menu order.
func Categories() []Category {
	return []Category{Coffee, Tea, Pastry, Sandwich, Breakfast, Lunch, Dinner}
}

// ParseCategory converts a case-insensitive name into a Category.
func ParseCategory(s string) (Category, error) {
	name := Category(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return "", errs.NewValueIsRequiredError("category")
	}
	if err := name.Validate(); err != nil {
		return "", err
	}
	return name, nil
}

// Validate checks c against the known categories.
func (c Category) Validate() error {
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%q is not a menu category", string(c)))
}

func (c Category) String() string { return string(c) }
