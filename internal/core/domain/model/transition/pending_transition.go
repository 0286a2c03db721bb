package transition

import (
	"errors"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

var ErrPendingTransitionIsNotConstructed = errors.New(
	"PendingTransition must be created via NewPendingTransition or RestorePendingTransition",
)

// PendingTransition is a queued, not yet evaluated request to move an order to
// target, valid only while the order is in expected.
type PendingTransition struct {
	orderID    kernel.UUID
	target     order.Status
	expected   order.Status
	source     string
	enqueuedAt time.Time

	// sequence is assigned by the queue on insert; zero until persisted
	sequence int64

	guard guard.ConstructorGuard
}

// NewPendingTransition builds an entry to be enqueued. Statuses are kept
// opaque; only their presence is checked. source is a free-form origin label
// (gateway name, event id) and may be empty.
func NewPendingTransition(
	orderID kernel.UUID,
	target order.Status,
	expected order.Status,
	source string,
	enqueuedAt time.Time,
) (PendingTransition, error) {
	if err := errors.Join(
		orderID.Validate(),
		requireStatus("target status", target),
		requireStatus("expected status", expected),
		requireTime(enqueuedAt),
	); err != nil {
		return PendingTransition{}, err
	}

	return PendingTransition{
		orderID:    orderID,
		target:     target,
		expected:   expected,
		source:     source,
		enqueuedAt: enqueuedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestorePendingTransition rebuilds a persisted entry with its queue sequence.
func RestorePendingTransition(
	sequence int64,
	orderID kernel.UUID,
	target order.Status,
	expected order.Status,
	source string,
	enqueuedAt time.Time,
) (PendingTransition, error) {
	if sequence <= 0 {
		return PendingTransition{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, "max int64")
	}

	pt, err := NewPendingTransition(orderID, target, expected, source, enqueuedAt)
	if err != nil {
		return PendingTransition{}, err
	}

	pt.sequence = sequence
	return pt, nil
}

func (p PendingTransition) Validate() error {
	return p.guard.Validate(ErrPendingTransitionIsNotConstructed)
}

func (p PendingTransition) OrderID() kernel.UUID {
	return p.orderID
}

func (p PendingTransition) Target() order.Status {
	return p.target
}

func (p PendingTransition) Expected() order.Status {
	return p.expected
}

func (p PendingTransition) Source() string {
	return p.source
}

func (p PendingTransition) EnqueuedAt() time.Time {
	return p.enqueuedAt
}

func (p PendingTransition) Sequence() int64 {
	return p.sequence
}

// Before reports whether p was enqueued ahead of other. enqueuedAt decides;
// equal timestamps fall back to the queue sequence.
func (p PendingTransition) Before(other PendingTransition) bool {
	if !p.enqueuedAt.Equal(other.enqueuedAt) {
		return p.enqueuedAt.Before(other.enqueuedAt)
	}
	return p.sequence < other.sequence
}

func requireStatus(name string, s order.Status) error {
	if s.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func requireTime(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("enqueued at")
	}
	return nil
}
