package commands

import (
	"context"
)

// LockOrderCommandHandler writes the lock flag as a single-field update.
// The reconciler re-reads the flag for every entry it evaluates, so an unlock
// issued in the middle of a drain pass applies to the remaining entries.
type LockOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewLockOrderCommandHandler(uowFactory OrderUoWFactory) LockOrderCommandHandler {
	return LockOrderCommandHandler{uowFactory: uowFactory}
}

// Handle locks or unlocks the order. Missing orders yield errs.ObjectNotFoundError.
func (h LockOrderCommandHandler) Handle(ctx context.Context, cmd LockOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	store := h.uowFactory.Create().OrderStore()
	if cmd.Locked() {
		return store.Lock(ctx, cmd.OrderID())
	}
	return store.Unlock(ctx, cmd.OrderID())
}
