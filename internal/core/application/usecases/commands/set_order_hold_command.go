package commands

import (
	"errors"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/guard"
)

var (
	ErrSetOrderHoldCommandIsNotConstructed = errors.New(
		"SetOrderHoldCommand must be created via NewSetOrderHoldCommand or NewClearOrderHoldCommand constructor",
	)

	// ErrHoldUntilIsRequired is returned for a zero deadline; clearing a hold
	// goes through NewClearOrderHoldCommand.
	ErrHoldUntilIsRequired = errors.New("hold until is required")
)

// SetOrderHoldCommand sets the earliest instant at which queued transitions
// of an order may be applied, or clears it.
type SetOrderHoldCommand struct {
	orderID kernel.UUID
	until   *time.Time

	guard guard.ConstructorGuard
}

// NewSetOrderHoldCommand sets the hold deadline to until.
func NewSetOrderHoldCommand(orderID kernel.UUID, until time.Time) (SetOrderHoldCommand, error) {
	if until.IsZero() {
		return SetOrderHoldCommand{}, ErrHoldUntilIsRequired
	}

	u := until.UTC()
	return newSetOrderHoldCommand(orderID, &u)
}

// NewClearOrderHoldCommand removes the hold deadline.
func NewClearOrderHoldCommand(orderID kernel.UUID) (SetOrderHoldCommand, error) {
	return newSetOrderHoldCommand(orderID, nil)
}

func newSetOrderHoldCommand(orderID kernel.UUID, until *time.Time) (SetOrderHoldCommand, error) {
	if err := orderID.Validate(); err != nil {
		return SetOrderHoldCommand{}, err
	}

	return SetOrderHoldCommand{
		orderID: orderID,
		until:   until,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SetOrderHoldCommand) Validate() error {
	return c.guard.Validate(ErrSetOrderHoldCommandIsNotConstructed)
}

func (c SetOrderHoldCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Until returns the deadline, or nil for a clear request.
func (c SetOrderHoldCommand) Until() *time.Time {
	return c.until
}
