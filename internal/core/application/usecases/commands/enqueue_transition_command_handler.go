package commands

import (
	"context"

	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/domain/model/transition"
	"reconciler/internal/pkg/clock"
)

// EnqueueTransitionCommandHandler is the entry point of the inbound webhook
// handler. It appends the notification to the order's queue and, when no
// drain is pending for the order yet, schedules one for max(now, hold until).
// Entry and schedule commit in the same transaction, so a queued entry is
// never left without a drain that will consume it.
//
// Example:
//
//	handler := NewEnqueueTransitionCommandHandler(uowFactory, clock.NewSystem())
//	cmd, _ := NewEnqueueTransitionCommand(orderID, order.Completed, order.Pending, "")
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("enqueue failed: %w", err)
//	}
type EnqueueTransitionCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewEnqueueTransitionCommandHandler(uowFactory UoWFactory, clk clock.Clock) EnqueueTransitionCommandHandler {
	return EnqueueTransitionCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle enqueues the entry. Identical notifications are not collapsed.
// An unknown order yields errs.ObjectNotFoundError and nothing is queued.
func (h EnqueueTransitionCommandHandler) Handle(ctx context.Context, cmd EnqueueTransitionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	entry, err := transition.NewPendingTransition(cmd.OrderID(), cmd.Target(), cmd.Expected(), cmd.Source(), now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderStore().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = uow.TransitionQueue().Enqueue(ctx, entry); err != nil {
		return err
	}

	scheduler := uow.Scheduler()
	dedupeKey := task.DrainDedupeKey(cmd.OrderID())

	scheduled, err := scheduler.HasScheduled(ctx, task.ProcessPendingTransitions, dedupeKey)
	if err != nil {
		return err
	}

	if !scheduled {
		args := task.Args{OrderID: cmd.OrderID(), Attempt: 0}
		if err = scheduler.Schedule(ctx, task.ProcessPendingTransitions, args, o.DrainableAt(now), dedupeKey); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
