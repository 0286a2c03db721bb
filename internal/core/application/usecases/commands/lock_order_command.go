package commands

import (
	"errors"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/guard"
)

var ErrLockOrderCommandIsNotConstructed = errors.New(
	"LockOrderCommand must be created via NewLockOrderCommand or NewUnlockOrderCommand constructor",
)

// LockOrderCommand sets or clears the advisory fence the checkout flow holds
// on an order while it is the authority on that order's status.
//
// Example:
//
//	lock, _ := NewLockOrderCommand(orderID)
//	_ = handler.Handle(ctx, lock)
//	defer func() {
//	    unlock, _ := NewUnlockOrderCommand(orderID)
//	    _ = handler.Handle(ctx, unlock)
//	}()
type LockOrderCommand struct {
	orderID kernel.UUID
	locked  bool

	guard guard.ConstructorGuard
}

// NewLockOrderCommand requests the fence to be set.
func NewLockOrderCommand(orderID kernel.UUID) (LockOrderCommand, error) {
	return newLockOrderCommand(orderID, true)
}

// NewUnlockOrderCommand requests the fence to be cleared.
func NewUnlockOrderCommand(orderID kernel.UUID) (LockOrderCommand, error) {
	return newLockOrderCommand(orderID, false)
}

func newLockOrderCommand(orderID kernel.UUID, locked bool) (LockOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return LockOrderCommand{}, err
	}

	return LockOrderCommand{
		orderID: orderID,
		locked:  locked,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c LockOrderCommand) Validate() error {
	return c.guard.Validate(ErrLockOrderCommandIsNotConstructed)
}

func (c LockOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Locked is true for a lock request and false for an unlock request.
func (c LockOrderCommand) Locked() bool {
	return c.locked
}
