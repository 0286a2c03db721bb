package commands

import (
	"context"

	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/clock"
)

// CreateOrderCommandHandler persists new orders in Created status.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, clock.NewSystem())
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), 30*time.Second)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle creates the order and, when requested, its initial hold window,
// in one transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID())
	if err != nil {
		return err
	}

	if cmd.HoldFor() > 0 {
		if err = o.SetHoldUntil(h.clock.Now().Add(cmd.HoldFor())); err != nil {
			return err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderStore().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
