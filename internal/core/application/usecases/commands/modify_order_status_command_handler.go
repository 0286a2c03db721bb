package commands

import (
	"context"
	"fmt"
	"log/slog"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/services"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/clock"
)

// ModifyOrderStatusCommandHandler is the status registry. It checks the
// requested change against the order lifecycle, writes the new status and,
// once committed, runs the exit hooks of the old status and the enter hooks
// of the new one.
//
// Hook failures are logged. The status change they follow is already durable
// and is still reported as applied.
type ModifyOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	hooks      *services.TransitionHooks
	clock      clock.Clock
	logger     *slog.Logger
}

func NewModifyOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	hooks *services.TransitionHooks,
	clk clock.Clock,
	logger *slog.Logger,
) ModifyOrderStatusCommandHandler {
	return ModifyOrderStatusCommandHandler{
		uowFactory: uowFactory,
		hooks:      hooks,
		clock:      clk,
		logger:     logger.With("component", "status_registry"),
	}
}

// Handle applies the change. Illegal transitions return an error wrapping
// order.ErrTransitionNotAllowed and leave the order untouched.
func (h ModifyOrderStatusCommandHandler) Handle(ctx context.Context, cmd ModifyOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	store := uow.OrderStore()

	// Get takes a row lock inside the transaction, so two concurrent changes
	// of the same order are serialized and each sees the other's result.
	o, err := store.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if expected, guarded := cmd.Expected(); guarded {
		if o.IsLocked() {
			return fmt.Errorf("%w: %s", order.ErrOrderLocked, o.ID())
		}
		if o.Status() != expected {
			return fmt.Errorf("%w: %s is %s, expected %s", order.ErrUnexpectedStatus, o.ID(), o.Status(), expected)
		}
	}

	previous, err := o.ChangeStatus(cmd.Target())
	if err != nil {
		return err
	}

	if err = store.SetStatus(ctx, o.ID(), o.Status()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := services.TransitionEvent{
		OrderID: o.ID(),
		From:    previous,
		To:      o.Status(),
		At:      h.clock.Now(),
	}
	if h.hooks != nil {
		if err = h.hooks.Dispatch(ctx, event); err != nil {
			h.logger.ErrorContext(ctx, "Transition hooks failed",
				"order_id", o.ID().String(),
				"from", previous.String(),
				"to", o.Status().String(),
				"error", err,
			)
		}
	}

	return nil
}

// ModifyStatus implements ports.StatusRegistry.
func (h ModifyOrderStatusCommandHandler) ModifyStatus(ctx context.Context, orderID kernel.UUID, target order.Status) error {
	cmd, err := NewModifyOrderStatusCommand(orderID, target)
	if err != nil {
		return err
	}
	return h.Handle(ctx, cmd)
}

// ModifyStatusFrom implements ports.GuardedStatusRegistry. The lock flag and
// the expected status are checked under the same row lock as the write.
func (h ModifyOrderStatusCommandHandler) ModifyStatusFrom(
	ctx context.Context,
	orderID kernel.UUID,
	expected order.Status,
	target order.Status,
) error {
	cmd, err := NewGuardedModifyOrderStatusCommand(orderID, expected, target)
	if err != nil {
		return err
	}
	return h.Handle(ctx, cmd)
}

var _ ports.GuardedStatusRegistry = ModifyOrderStatusCommandHandler{}
