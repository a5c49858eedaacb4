package queries

import (
	"errors"
	"strings"

	"qrcafe/internal/core/domain/model/menu"
	"qrcafe/internal/pkg/guard"
)

var (
	ErrGetAvailableMenuQueryIsNotConstructed = errors.New(
		"GetAvailableMenuQuery must be created via NewGetAvailableMenuQuery constructor",
	)
)

// GetAvailableMenuQuery lists the items customers can order, optionally
// restricted to one category.
type GetAvailableMenuQuery struct {
	category *menu.Category

	guard guard.ConstructorGuard
}

// NewGetAvailableMenuQuery creates the query. A blank category means all categories.
func NewGetAvailableMenuQuery(category string) (GetAvailableMenuQuery, error) {
	q := GetAvailableMenuQuery{guard: guard.NewConstructorGuard()}
	if strings.TrimSpace(category) == "" {
		return q, nil
	}

	c, err := menu.ParseCategory(category)
	if err != nil {
		return GetAvailableMenuQuery{}, err
	}
	q.category = &c
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableMenuQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableMenuQueryIsNotConstructed)
}

// Category returns the filter, nil for all categories.
func (q GetAvailableMenuQuery) Category() *menu.Category { return q.category }
