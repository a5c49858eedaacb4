// Package ports defines the contracts between the ordering core and its adapters.
// Persistence, realtime delivery, credentials and id generation are all reached
// through these interfaces so the use cases can be tested with mocks.
package ports

import (
	"context"
	"time"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
)

const (
	// DefaultListLimit is the staff snapshot size when the caller passes none.
	DefaultListLimit = 50
	// MaxListLimit bounds the staff snapshot.
	MaxListLimit = 200
)

// OrderRepository is the durable record of orders.
type OrderRepository interface {
	// Add inserts a new order.
	// Returns ObjectAlreadyExistsError when the order number is taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or ObjectNotFoundError.
	Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error)

	// UpdateStatus atomically sets status and updatedAt if, and only if, the stored
	// status still equals expected. It returns the updated order, or nil with no
	// error when the compare-and-set matched no row.
	//
	// Example:
	//
	//	updated, err := repo.UpdateStatus(ctx, number, order.Pending, order.Confirmed, time.Now())
	//	if err == nil && updated == nil {
	//	    // someone else moved the order first
	//	}
	UpdateStatus(
		ctx context.Context,
		number kernel.OrderNumber,
		expected order.Status,
		target order.Status,
		at time.Time,
	) (*order.Order, error)
}

// OrderNumberGenerator produces fresh order numbers.
// Implementations must be safe for concurrent use.
type OrderNumberGenerator interface {
	Next(at time.Time) kernel.OrderNumber
}
