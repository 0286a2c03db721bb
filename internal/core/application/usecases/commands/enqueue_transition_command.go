package commands

import (
	"errors"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

var ErrEnqueueTransitionCommandIsNotConstructed = errors.New(
	"EnqueueTransitionCommand must be created via NewEnqueueTransitionCommand constructor",
)

// EnqueueTransitionCommand carries one normalized gateway notification: move
// the order to target, provided it is still in expected.
//
// Example:
//
//	cmd, err := NewEnqueueTransitionCommand(orderID, order.Completed, order.Pending, "paypal:WH-123")
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type EnqueueTransitionCommand struct {
	orderID  kernel.UUID
	target   order.Status
	expected order.Status
	source   string

	guard guard.ConstructorGuard
}

// NewEnqueueTransitionCommand requires both statuses. They are kept opaque
// here; whether target is reachable is for the status registry to decide.
func NewEnqueueTransitionCommand(
	orderID kernel.UUID,
	target order.Status,
	expected order.Status,
	source string,
) (EnqueueTransitionCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		requireStatus("target status", target),
		requireStatus("expected status", expected),
	); err != nil {
		return EnqueueTransitionCommand{}, err
	}

	return EnqueueTransitionCommand{
		orderID:  orderID,
		target:   target,
		expected: expected,
		source:   source,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c EnqueueTransitionCommand) Validate() error {
	return c.guard.Validate(ErrEnqueueTransitionCommandIsNotConstructed)
}

func (c EnqueueTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c EnqueueTransitionCommand) Target() order.Status {
	return c.target
}

func (c EnqueueTransitionCommand) Expected() order.Status {
	return c.expected
}

func (c EnqueueTransitionCommand) Source() string {
	return c.source
}

func requireStatus(name string, s order.Status) error {
	if s.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
