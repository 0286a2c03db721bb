package commands

import (
	"errors"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers an order on behalf of the checkout flow.
// A positive holdFor opens a hold window right away so that gateway
// notifications arriving during checkout wait for it.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), 30*time.Second)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	holdFor time.Duration

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order id and the hold window length.
func NewCreateOrderCommand(orderID kernel.UUID, holdFor time.Duration) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setHoldFor(holdFor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// HoldFor returns the hold window length; zero means no hold.
func (c CreateOrderCommand) HoldFor() time.Duration {
	return c.holdFor
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setHoldFor(holdFor time.Duration) error {
	if holdFor < 0 {
		return errs.NewValueIsOutOfRangeError("hold for", holdFor, time.Duration(0), "unbounded")
	}

	c.holdFor = holdFor
	return nil
}
