package ports

import (
	"context"

	"qrcafe/internal/core/domain/model/order"
)

// OrderEventKind names a change notification sent to staff views.
type OrderEventKind string

const (
	OrderCreated OrderEventKind = "order-created"
	OrderUpdated OrderEventKind = "order-updated"
)

// OrderEventPublisher fans order changes out to live staff sessions.
//
// Publish is called after the change is committed. It must not block on slow
// receivers; delivery is best effort and an error only reports that the event
// could not be handed to the transport at all.
type OrderEventPublisher interface {
	Publish(ctx context.Context, kind OrderEventKind, aggregate *order.Order) error
}
