package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"
)

var errStatusChangedConcurrently = errors.New("order status was changed concurrently")

// ChangeOrderStatusCommandHandler advances an order along its lifecycle.
//
// The transition is validated against the status read from the store and then
// written with a compare-and-set on that same status, so of two concurrent
// requests from the same state exactly one succeeds. The loser receives a
// TransitionIsInvalidError describing the state it lost to.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewChangeOrderStatusCommandHandler creates a handler for staff status changes.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "change_order_status_handler"),
		now:        time.Now,
	}
}

// Handle validates and applies the transition, then publishes order-updated.
//
// Returns:
//   - ObjectNotFoundError when the order does not exist
//   - TransitionIsInvalidError when there is no edge from the current status,
//     or when another request changed the status first
func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	current, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	expected := current.Status()
	at := h.now().UTC()
	if err = current.ChangeStatus(cmd.Target(), at); err != nil {
		return nil, err
	}

	updated, err := repo.UpdateStatus(ctx, cmd.OrderID(), expected, cmd.Target(), current.UpdatedAt())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, h.lostRace(ctx, repo, cmd, expected)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", updated.Number().String(),
		"from", expected.String(),
		"to", updated.Status().String(),
	)

	if err = h.publisher.Publish(ctx, ports.OrderUpdated, updated); err != nil {
		h.logger.WarnContext(ctx, "failed to publish order event",
			"order_id", updated.Number().String(),
			"event", string(ports.OrderUpdated),
			"error", err,
		)
	}

	return updated, nil
}

// lostRace builds the error for a compare-and-set that matched no row, reporting
// the status that won when it can still be read.
func (h *ChangeOrderStatusCommandHandler) lostRace(
	ctx context.Context,
	repo ports.OrderRepository,
	cmd ChangeOrderStatusCommand,
	expected order.Status,
) error {
	from := expected
	if latest, err := repo.Get(ctx, cmd.OrderID()); err == nil {
		from = latest.Status()
	}

	h.logger.InfoContext(ctx, "order status change lost a race",
		"order_id", cmd.OrderID().String(),
		"expected", expected.String(),
		"actual", from.String(),
		"target", cmd.Target().String(),
	)

	return errs.NewTransitionIsInvalidErrorWithCause(from.String(), cmd.Target().String(), errStatusChangedConcurrently)
}
