// Package commands contains the operations that change reconciler state:
// enqueueing webhook notifications, draining them, applying status changes,
// and the checkout flow's lock and hold bookkeeping.
// Every command is built through its constructor, validated by the handler and
// executed against a unit of work.
package commands

import (
	"context"

	"reconciler/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderStoreFactory provides the order store bound to the current transaction.
	OrderStoreFactory interface {
		OrderStore() ports.OrderStore
	}

	// TransitionQueueFactory provides the pending transition queue bound to the current transaction.
	TransitionQueueFactory interface {
		TransitionQueue() ports.TransitionQueue
	}

	// SchedulerFactory provides the scheduler gateway bound to the current transaction.
	SchedulerFactory interface {
		Scheduler() ports.Scheduler
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderStoreFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW spans orders, the transition queue and the scheduler, so that an
	// enqueued entry and the drain that will consume it commit together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   _ = uow.TransitionQueue().Enqueue(ctx, entry)
	//   _ = uow.Scheduler().Schedule(ctx, name, args, runAt, key)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderStoreFactory
		TransitionQueueFactory
		SchedulerFactory
	}

	// UoWFactory creates new unit of work instances for cross-store operations.
	UoWFactory interface {
		Create() UoW
	}
)
