package commands_test

import (
	"errors"
	"testing"
	"time"

	"qrcafe/internal/core/application/usecases/commands"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testOrderID = "ORD-250101-ABC"

func restoreOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	number, err := kernel.OrderNumberFromString(testOrderID)
	require.NoError(t, err)
	customer, err := order.NewCustomer("Ann", "555-0100")
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), "Latte", kernel.MustMoney("4.50"), 1, "")
	require.NoError(t, err)
	at := time.Now().Add(-time.Hour).UTC()
	o, err := order.RestoreOrder(number, customer, "T1", []order.LineItem{item},
		kernel.MustMoney("4.50"), status, "", at, at)
	require.NoError(t, err)
	return o
}

func statusCommand(t *testing.T, target string) commands.ChangeOrderStatusCommand {
	t.Helper()
	cmd, err := commands.NewChangeOrderStatusCommand(testOrderID, target)
	require.NoError(t, err)
	return cmd
}

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	current := restoreOrder(t, order.Pending)
	stored := restoreOrder(t, order.Confirmed)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	publisher := new(MockPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, current.Number()).Return(current, nil).Once(),
		repo.On("UpdateStatus", ctx, current.Number(), order.Pending, order.Confirmed, mock.AnythingOfType("time.Time")).
			Return(stored, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, ports.OrderUpdated, stored).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger)
	updated, err := h.Handle(ctx, statusCommand(t, "confirmed"))

	require.NoError(t, err)
	assert.Same(t, stored, updated)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_InvalidEdge(t *testing.T) {
	testCases := []struct {
		name    string
		current order.Status
		target  string
	}{
		{name: "pending to preparing", current: order.Pending, target: "preparing"},
		{name: "pending to ready", current: order.Pending, target: "ready"},
		{name: "completed to pending", current: order.Completed, target: "pending"},
		{name: "cancelled to confirmed", current: order.Cancelled, target: "confirmed"},
		{name: "preparing to cancelled", current: order.Preparing, target: "cancelled"},
		{name: "ready to ready", current: order.Ready, target: "ready"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			current := restoreOrder(t, tc.current)

			repo := new(MockOrderRepository)
			repo.On("Get", ctx, current.Number()).Return(current, nil).Once()
			uow := new(MockOrderUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("OrderRepository").Return(repo).Once()
			uow.On("Rollback", ctx).Return(nil).Once()
			factory := new(MockOrderUoWFactory)
			factory.On("Create").Return(uow).Once()
			publisher := new(MockPublisher)

			h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger)
			_, err := h.Handle(ctx, statusCommand(t, tc.target))

			require.ErrorIs(t, err, errs.ErrTransitionIsInvalid)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
			publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestChangeOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, mock.Anything).Return(nil, errs.NewObjectNotFoundError("order", testOrderID)).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewChangeOrderStatusCommandHandler(factory, new(MockPublisher), discardLogger)
	_, err := h.Handle(ctx, statusCommand(t, "confirmed"))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestChangeOrderStatusCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	current := restoreOrder(t, order.Pending)
	winner := restoreOrder(t, order.Cancelled)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, current.Number()).Return(current, nil).Once()
	repo.On("UpdateStatus", ctx, current.Number(), order.Pending, order.Confirmed, mock.Anything).
		Return(nil, nil).Once()
	repo.On("Get", ctx, current.Number()).Return(winner, nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	publisher := new(MockPublisher)

	h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger)
	_, err := h.Handle(ctx, statusCommand(t, "confirmed"))

	require.ErrorIs(t, err, errs.ErrTransitionIsInvalid)
	var transitionErr *errs.TransitionIsInvalidError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "cancelled", transitionErr.From)
	assert.Equal(t, "confirmed", transitionErr.To)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_PublishFailureIsIgnored(t *testing.T) {
	ctx := t.Context()
	current := restoreOrder(t, order.Ready)
	stored := restoreOrder(t, order.Completed)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, mock.Anything).Return(current, nil)
	repo.On("UpdateStatus", ctx, mock.Anything, order.Ready, order.Completed, mock.Anything).Return(stored, nil)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, ports.OrderUpdated, stored).Return(errors.New("no sessions")).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger)
	updated, err := h.Handle(ctx, statusCommand(t, "completed"))

	require.NoError(t, err)
	assert.Equal(t, order.Completed, updated.Status())
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_StoreUnavailable(t *testing.T) {
	ctx := t.Context()
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, mock.Anything).Return(nil, errs.NewServiceIsUnavailableError("order store"))
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewChangeOrderStatusCommandHandler(factory, new(MockPublisher), discardLogger)
	_, err := h.Handle(ctx, statusCommand(t, "confirmed"))

	require.ErrorIs(t, err, errs.ErrServiceIsUnavailable)
}
