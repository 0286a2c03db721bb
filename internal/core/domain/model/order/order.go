package order

import (
	"errors"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderAlreadyExists is returned by stores on a duplicate order id.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrOrderLocked and ErrUnexpectedStatus refuse a guarded status change.
	ErrOrderLocked      = errors.New("order is locked")
	ErrUnexpectedStatus = errors.New("order is not in the expected status")
)

// Order is the aggregate whose status is reconciled against gateway
// notifications. Besides the status it carries the two fields the checkout
// flow uses to fence off webhook reconciliation:
//
//   - locked: a cooperative flag; while set, queued transitions are dropped
//   - holdUntil: no queued transition may be applied before this instant
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Status is never the Unknown zero value
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// status is the current lifecycle state
	status Status

	// locked is the advisory fence held by the checkout flow
	locked bool

	// holdUntil is the earliest instant a queued transition may be applied (nil: no hold)
	holdUntil *time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an unlocked order in Created status without a hold.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID())
//	if err != nil {
//	    return err
//	}
//	_ = o.SetHoldUntil(now.Add(30 * time.Second))
func NewOrder(id kernel.UUID) (*Order, error) {
	o := &Order{
		status:        Created,
		isConstructed: true,
	}

	if err := o.setID(id); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. The status is accepted as
// an opaque value; only the Unknown zero value is rejected.
func RestoreOrder(id kernel.UUID, status Status, locked bool, holdUntil *time.Time) (*Order, error) {
	o := &Order{
		locked:        locked,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	if holdUntil != nil {
		if err := o.SetHoldUntil(*holdUntil); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// IsLocked reports whether the checkout flow currently holds the fence.
func (o *Order) IsLocked() bool {
	return o.locked
}

// HoldUntil returns a copy of the hold deadline, or nil when no hold is set.
func (o *Order) HoldUntil() *time.Time {
	if o.holdUntil == nil {
		return nil
	}
	t := *o.holdUntil
	return &t
}

// IsHeld reports whether queued transitions must still wait at now.
// A hold ending exactly at now is already elapsed.
func (o *Order) IsHeld(now time.Time) bool {
	return o.holdUntil != nil && now.Before(*o.holdUntil)
}

// DrainableAt returns the earliest instant a drain may apply transitions:
// max(now, holdUntil).
func (o *Order) DrainableAt(now time.Time) time.Time {
	if o.IsHeld(now) {
		return *o.holdUntil
	}
	return now
}

// Lock sets the advisory fence. Locking a locked order is a no-op.
func (o *Order) Lock() {
	o.locked = true
}

// Unlock clears the advisory fence. Unlocking an unlocked order is a no-op.
func (o *Order) Unlock() {
	o.locked = false
}

// SetHoldUntil sets the hold deadline. The zero time is rejected; use
// ClearHold to remove a hold.
func (o *Order) SetHoldUntil(until time.Time) error {
	if until.IsZero() {
		return errs.NewValueIsRequiredError("hold until")
	}
	t := until.UTC()
	o.holdUntil = &t
	return nil
}

// ClearHold removes the hold deadline.
func (o *Order) ClearHold() {
	o.holdUntil = nil
}

// ChangeStatus moves the order to target if the legality table allows it.
//
// Returns:
//   - the status the order had before the change
//   - ValueIsInvalidError wrapping ErrTransitionNotAllowed if the edge does not exist
func (o *Order) ChangeStatus(target Status) (Status, error) {
	if err := o.status.CanTransitionTo(target); err != nil {
		return o.status, err
	}

	previous := o.status
	o.status = target
	return previous, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if status.IsZero() {
		return errs.NewValueIsRequiredError("status")
	}
	o.status = status
	return nil
}
