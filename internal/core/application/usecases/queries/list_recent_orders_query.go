// Package queries contains read-only operations over orders and the menu.
package queries

import (
	"errors"

	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"
	"qrcafe/internal/pkg/guard"
)

var (
	ErrListRecentOrdersQueryIsNotConstructed = errors.New(
		"ListRecentOrdersQuery must be created via NewListRecentOrdersQuery constructor",
	)
)

// ListRecentOrdersQuery fetches the newest orders, used to seed staff boards.
type ListRecentOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewListRecentOrdersQuery creates the query. A zero limit selects ports.DefaultListLimit.
func NewListRecentOrdersQuery(limit int) (ListRecentOrdersQuery, error) {
	if limit == 0 {
		limit = ports.DefaultListLimit
	}
	if limit < 1 || limit > ports.MaxListLimit {
		return ListRecentOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, ports.MaxListLimit)
	}
	return ListRecentOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListRecentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListRecentOrdersQueryIsNotConstructed)
}

func (q ListRecentOrdersQuery) Limit() int { return q.limit }
