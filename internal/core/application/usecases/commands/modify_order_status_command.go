package commands

import (
	"errors"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

var ErrModifyOrderStatusCommandIsNotConstructed = errors.New(
	"ModifyOrderStatusCommand must be created via NewModifyOrderStatusCommand constructor",
)

// ModifyOrderStatusCommand moves an order to target. A guarded command also
// requires the order to be unlocked and still in expected when the change is
// made.
type ModifyOrderStatusCommand struct {
	orderID  kernel.UUID
	target   order.Status
	expected order.Status

	guard guard.ConstructorGuard
}

func NewModifyOrderStatusCommand(orderID kernel.UUID, target order.Status) (ModifyOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), target.Validate()); err != nil {
		return ModifyOrderStatusCommand{}, err
	}

	return ModifyOrderStatusCommand{
		orderID: orderID,
		target:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewGuardedModifyOrderStatusCommand builds a command that is refused with
// order.ErrOrderLocked or order.ErrUnexpectedStatus when its preconditions no
// longer hold.
func NewGuardedModifyOrderStatusCommand(
	orderID kernel.UUID,
	expected order.Status,
	target order.Status,
) (ModifyOrderStatusCommand, error) {
	if expected.IsZero() {
		return ModifyOrderStatusCommand{}, errs.NewValueIsRequiredError("expected status")
	}

	cmd, err := NewModifyOrderStatusCommand(orderID, target)
	if err != nil {
		return ModifyOrderStatusCommand{}, err
	}
	cmd.expected = expected
	return cmd, nil
}

func (c ModifyOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrModifyOrderStatusCommandIsNotConstructed)
}

func (c ModifyOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ModifyOrderStatusCommand) Target() order.Status {
	return c.target
}

// Expected returns the required current status; ok is false for unguarded commands.
func (c ModifyOrderStatusCommand) Expected() (order.Status, bool) {
	return c.expected, !c.expected.IsZero()
}
