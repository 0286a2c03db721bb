package ports

import (
	"context"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
)

// StatusRegistry is the authority on which status transitions are legal.
type StatusRegistry interface {
	// ModifyStatus moves the order to target. A nil error means the change was
	// committed; any error means nothing was changed, whether the transition
	// was illegal or storage failed.
	ModifyStatus(ctx context.Context, orderID kernel.UUID, target order.Status) error
}

// GuardedStatusRegistry is a StatusRegistry that can also re-check, atomically
// with the write, that the order is unlocked and still in expected. Refusals
// wrap order.ErrOrderLocked or order.ErrUnexpectedStatus.
type GuardedStatusRegistry interface {
	StatusRegistry
	ModifyStatusFrom(ctx context.Context, orderID kernel.UUID, expected, target order.Status) error
}
