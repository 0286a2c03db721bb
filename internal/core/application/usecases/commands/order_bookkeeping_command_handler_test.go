package commands_test

import (
	"testing"
	"time"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	store := new(MockOrderStore)
	uow := new(MockOrderUoW)
	uow.On("OrderStore").Return(store)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	store.On("Lock", ctx, id).Return(nil).Once()
	store.On("Unlock", ctx, id).Return(nil).Once()

	h := commands.NewLockOrderCommandHandler(factory)

	lock, err := commands.NewLockOrderCommand(id)
	require.NoError(t, err)
	assert.True(t, lock.Locked())
	require.NoError(t, h.Handle(ctx, lock))

	unlock, err := commands.NewUnlockOrderCommand(id)
	require.NoError(t, err)
	assert.False(t, unlock.Locked())
	require.NoError(t, h.Handle(ctx, unlock))

	store.AssertExpectations(t)
	uow.AssertNotCalled(t, "Begin", ctx)
}

func TestLockOrderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	store := new(MockOrderStore)
	uow := new(MockOrderUoW)
	uow.On("OrderStore").Return(store)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	store.On("Lock", ctx, id).Return(errs.NewObjectNotFoundError("order", id)).Once()

	cmd, _ := commands.NewLockOrderCommand(id)
	err := commands.NewLockOrderCommandHandler(factory).Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSetOrderHoldCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	until := now.Add(time.Minute)

	store := new(MockOrderStore)
	uow := new(MockOrderUoW)
	uow.On("OrderStore").Return(store)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	store.On("SetHoldUntil", ctx, id, &until).Return(nil).Once()
	store.On("SetHoldUntil", ctx, id, (*time.Time)(nil)).Return(nil).Once()

	h := commands.NewSetOrderHoldCommandHandler(factory)

	set, err := commands.NewSetOrderHoldCommand(id, until)
	require.NoError(t, err)
	require.NoError(t, h.Handle(ctx, set))

	clearCmd, err := commands.NewClearOrderHoldCommand(id)
	require.NoError(t, err)
	require.NoError(t, h.Handle(ctx, clearCmd))

	store.AssertExpectations(t)
}

func TestNewSetOrderHoldCommand_ZeroTime(t *testing.T) {
	_, err := commands.NewSetOrderHoldCommand(kernel.NewUUID(), time.Time{})
	require.ErrorIs(t, err, commands.ErrHoldUntilIsRequired)
}
