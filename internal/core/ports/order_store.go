// Package ports defines the contracts between the reconciliation core and its
// collaborators: order storage, the pending transition queue, the scheduler
// gateway and the status registry.
package ports

import (
	"context"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
)

// OrderStore persists the order fields the reconciler reads and the checkout
// flow writes. Every single-field operation touches exactly one column of one
// order; callers must not assume that two calls are applied atomically.
// Operations on a missing order return errs.ObjectNotFoundError.
type OrderStore interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get loads the whole aggregate with its current status, lock and hold.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	GetStatus(ctx context.Context, id kernel.UUID) (order.Status, error)
	SetStatus(ctx context.Context, id kernel.UUID, status order.Status) error

	IsLocked(ctx context.Context, id kernel.UUID) (bool, error)
	Lock(ctx context.Context, id kernel.UUID) error
	Unlock(ctx context.Context, id kernel.UUID) error

	// GetHoldUntil returns nil when the order has no hold.
	GetHoldUntil(ctx context.Context, id kernel.UUID) (*time.Time, error)

	// SetHoldUntil sets the hold deadline; nil clears it.
	SetHoldUntil(ctx context.Context, id kernel.UUID, until *time.Time) error
}
