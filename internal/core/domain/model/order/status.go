package order

import (
	"errors"
	"fmt"
	"slices"

	"reconciler/internal/pkg/errs"
)

// Status is the lifecycle state of a payment order.
//
// Transitions:
//
//	created ──┬──> pending ──┬──> approved ──> completed ──┬──> refunded
//	          │              │        │                    └──> reversed
//	          ├──> action-required    ├──> refunded
//	          ├──> denied / not-completed ──> pending|approved|completed
//	          └──> voided             └──> voided
//
// Status values are persisted as their string form, so the constants must not
// be renamed.
type Status string

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = ""

	// Created is the initial status set by the checkout flow.
	Created Status = "created"

	// Pending means the gateway accepted the payment but has not settled it.
	Pending Status = "pending"

	// ActionRequired means the buyer must complete an extra step (e.g. 3DS).
	ActionRequired Status = "action-required"

	// Approved means the payment is authorized but not captured.
	Approved Status = "approved"

	// Completed means the payment is captured.
	Completed Status = "completed"

	// Denied means the gateway declined the payment.
	Denied Status = "denied"

	// NotCompleted means the buyer abandoned or the payment expired.
	NotCompleted Status = "not-completed"

	// Refunded is final: the captured amount was returned.
	Refunded Status = "refunded"

	// Reversed is final: the payment was charged back.
	Reversed Status = "reversed"

	// Voided is final: the authorization was cancelled before capture.
	Voided Status = "voided"
)

// ErrTransitionNotAllowed is wrapped by CanTransitionTo when the legality table
// has no edge between the two statuses.
var ErrTransitionNotAllowed = errors.New("status transition is not allowed")

// legalTransitions lists, per status, every status it may move to.
// Statuses absent from the keys are final.
func legalTransitions() map[Status][]Status {
	return map[Status][]Status{
		Created:        {Pending, ActionRequired, Approved, Completed, Denied, NotCompleted, Voided},
		Pending:        {ActionRequired, Approved, Completed, Denied, NotCompleted, Voided},
		ActionRequired: {Pending, Approved, Completed, Denied, NotCompleted, Voided},
		Approved:       {Completed, Denied, Voided, Refunded},
		Completed:      {Refunded, Reversed},
		Denied:         {Pending, Approved, Completed},
		NotCompleted:   {Pending, Approved, Completed},
	}
}

// AllStatuses returns every known status in declaration order.
func AllStatuses() []Status {
	return []Status{
		Created, Pending, ActionRequired, Approved, Completed,
		Denied, NotCompleted, Refunded, Reversed, Voided,
	}
}

// ParseStatus converts the persisted or wire form into a known Status.
//
// Returns:
//   - the matching Status
//   - ValueIsInvalidError if the string names no known status
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return Unknown, err
	}
	return status, nil
}

// Validate checks that the status belongs to the known enumeration.
func (s Status) Validate() error {
	if !slices.Contains(AllStatuses(), s) {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", string(s)))
	}
	return nil
}

// IsZero reports whether the status is the Unknown zero value.
func (s Status) IsZero() bool {
	return s == Unknown
}

// IsFinal reports whether no transition leaves this status.
func (s Status) IsFinal() bool {
	_, ok := legalTransitions()[s]
	return !ok
}

// String returns the persisted form, or "unknown" for the zero value.
func (s Status) String() string {
	if s.IsZero() {
		return "unknown"
	}
	return string(s)
}

// CanTransitionTo checks the legality table without changing anything.
//
// Returns:
//   - nil if the edge s -> target exists
//   - ValueIsInvalidError wrapping ErrTransitionNotAllowed otherwise, including
//     when either side is not a known status
//
// Example:
//
//	if err := order.Pending.CanTransitionTo(order.Completed); err != nil {
//	    // reject the notification
//	}
func (s Status) CanTransitionTo(target Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}
	if !slices.Contains(legalTransitions()[s], target) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, s, target),
		)
	}
	return nil
}
