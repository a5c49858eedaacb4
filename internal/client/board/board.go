// Package board keeps the staff view of recent orders: a snapshot merged with
// realtime events, always presented in status-rank order.
package board

import (
	"sort"
	"sync"

	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/core/ports"
)

// Counts are derived from the current list on every call.
type Counts struct {
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
	Total     int `json:"total"`
}

// Board is safe for concurrent use, though it is normally mutated only from
// the subscriber's dispatch loop.
type Board struct {
	mu     sync.RWMutex
	orders map[string]readmodel.OrderView
}

func New() *Board {
	return &Board{orders: make(map[string]readmodel.OrderView)}
}

// Reset replaces the contents with a snapshot. Duplicate ids keep the most recently updated entry.
func (b *Board) Reset(snapshot []readmodel.OrderView) {
	orders := make(map[string]readmodel.OrderView, len(snapshot))
	for _, view := range snapshot {
		if existing, ok := orders[view.OrderID]; ok && view.UpdatedAt.Before(existing.UpdatedAt) {
			continue
		}
		orders[view.OrderID] = view
	}

	b.mu.Lock()
	b.orders = orders
	b.mu.Unlock()
}

// Apply merges one event and reports whether the board changed.
//
// order-created inserts only unknown orders. order-updated replaces the entry,
// or inserts it when unknown, unless the entry already holds a newer version.
func (b *Board) Apply(kind ports.OrderEventKind, view readmodel.OrderView) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, known := b.orders[view.OrderID]
	switch kind {
	case ports.OrderCreated:
		if known {
			return false
		}
	case ports.OrderUpdated:
		if known && view.UpdatedAt.Before(existing.UpdatedAt) {
			return false
		}
	default:
		return false
	}

	b.orders[view.OrderID] = view
	return true
}

// Orders returns a sorted copy: status rank ascending, then createdAt
// descending, then orderId ascending.
func (b *Board) Orders() []readmodel.OrderView {
	b.mu.RLock()
	list := make([]readmodel.OrderView, 0, len(b.orders))
	for _, view := range b.orders {
		list = append(list, view)
	}
	b.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return Less(list[i], list[j])
	})
	return list
}

// Less is the board ordering.
func Less(a, b readmodel.OrderView) bool {
	if a.Status.Rank() != b.Status.Rank() {
		return a.Status.Rank() < b.Status.Rank()
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.OrderID < b.OrderID
}

func (b *Board) Counts() Counts {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c := Counts{Total: len(b.orders)}
	for _, view := range b.orders {
		switch view.Status { //nolint:exhaustive // only the actionable statuses are counted
		case order.Pending:
			c.Pending++
		case order.Preparing:
			c.Preparing++
		case order.Ready:
			c.Ready++
		}
	}
	return c
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}
