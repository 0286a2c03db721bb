package queries

import (
	"errors"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/guard"
)

var (
	ErrGetOrderStateQueryIsNotConstructed = errors.New(
		"GetOrderStateQuery must be created via NewGetOrderStateQuery constructor",
	)
)

// GetOrderStateQuery reads what the reconciler knows about one order.
//
// Example:
//
//	query, _ := NewGetOrderStateQuery(orderID)
//	state, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to read order state: %w", err)
//	}
//	fmt.Printf("%s: %d pending transitions\n", state.Status, state.PendingTransitions)
type GetOrderStateQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderStateQuery(orderID kernel.UUID) (GetOrderStateQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderStateQuery{}, err
	}

	return GetOrderStateQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStateQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStateQueryIsNotConstructed)
}

func (q GetOrderStateQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderStateQueryResponse is the reconciliation view of an order.
// NextDrainAt is the run time of the pending drain task, nil when none is armed.
type GetOrderStateQueryResponse struct {
	ID                 kernel.UUID
	Status             order.Status
	Locked             bool
	HoldUntil          *time.Time
	PendingTransitions int
	NextDrainAt        *time.Time
}
