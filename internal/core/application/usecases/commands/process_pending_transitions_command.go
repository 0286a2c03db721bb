package commands

import (
	"errors"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

var ErrProcessPendingTransitionsCommandIsNotConstructed = errors.New(
	"ProcessPendingTransitionsCommand must be created via NewProcessPendingTransitionsCommand constructor",
)

// ProcessPendingTransitionsCommand asks for one drain pass over an order's
// queue. It is issued only by the scheduler's dispatch loop; attempt is the
// scheduler's token for this run and carries no business meaning.
type ProcessPendingTransitionsCommand struct {
	orderID kernel.UUID
	attempt int

	guard guard.ConstructorGuard
}

func NewProcessPendingTransitionsCommand(orderID kernel.UUID, attempt int) (ProcessPendingTransitionsCommand, error) {
	var errList []error
	errList = append(errList, orderID.Validate())
	if attempt < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("attempt", attempt, 0, "max int"))
	}
	if err := errors.Join(errList...); err != nil {
		return ProcessPendingTransitionsCommand{}, err
	}

	return ProcessPendingTransitionsCommand{
		orderID: orderID,
		attempt: attempt,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessPendingTransitionsCommand) Validate() error {
	return c.guard.Validate(ErrProcessPendingTransitionsCommandIsNotConstructed)
}

func (c ProcessPendingTransitionsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ProcessPendingTransitionsCommand) Attempt() int {
	return c.attempt
}
