package commands

import (
	"context"
	"log/slog"
	"time"

	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/core/ports"
)

// CreateOrderCommandHandler stores a new Pending order and announces it to staff.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, kernel.RandomOrderNumberGenerator, hub, logger)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(created.Number(), created.Total())
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	numbers    ports.OrderNumberGenerator
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order submissions.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	numbers ports.OrderNumberGenerator,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		numbers:    numbers,
		publisher:  publisher,
		logger:     logger.With("component", "create_order_handler"),
		now:        time.Now,
	}
}

// Handle persists the order inside a transaction, then publishes order-created.
// A publish failure is logged and does not affect the result.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.now().UTC()
	created, err := order.NewOrder(
		h.numbers.Next(now),
		cmd.Customer(),
		cmd.Table(),
		cmd.LineItems(),
		cmd.Notes(),
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order created",
		"order_id", created.Number().String(),
		"table", created.Table().String(),
		"total", created.Total().String(),
	)

	if err = h.publisher.Publish(ctx, ports.OrderCreated, created); err != nil {
		h.logger.WarnContext(ctx, "failed to publish order event",
			"order_id", created.Number().String(),
			"event", string(ports.OrderCreated),
			"error", err,
		)
	}

	return created, nil
}
