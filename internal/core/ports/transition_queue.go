package ports

import (
	"context"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/transition"
)

// TransitionQueue holds, per order, the pending transitions in enqueue order.
type TransitionQueue interface {
	// Enqueue appends an entry. Identical entries are not collapsed.
	Enqueue(ctx context.Context, entry transition.PendingTransition) error

	// DequeueAll returns and removes every entry of the order in one atomic
	// step, oldest first. An entry enqueued concurrently is either part of the
	// result or still queued afterwards, never lost.
	DequeueAll(ctx context.Context, orderID kernel.UUID) ([]transition.PendingTransition, error)

	IsEmpty(ctx context.Context, orderID kernel.UUID) (bool, error)

	// Len returns the number of entries currently queued for the order.
	Len(ctx context.Context, orderID kernel.UUID) (int, error)
}
