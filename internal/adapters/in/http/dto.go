package http

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewOrder struct {
	OrderID        *openapi_types.UUID `json:"order_id,omitempty"`
	HoldForSeconds int                 `json:"hold_for_seconds,omitempty"`
}

type OrderCreated struct {
	OrderID openapi_types.UUID `json:"order_id"`
}

type OrderState struct {
	OrderID            openapi_types.UUID `json:"order_id"`
	Status             string             `json:"status"`
	Locked             bool               `json:"locked"`
	HoldUntil          *time.Time         `json:"hold_until"`
	PendingTransitions int                `json:"pending_transitions"`
	NextDrainAt        *time.Time         `json:"next_drain_at"`
}

// Hold sets the hold deadline; a null or missing Until clears it.
type Hold struct {
	Until *time.Time `json:"until"`
}

// Transition is a gateway notification already normalized by the caller.
type Transition struct {
	TargetStatus   string `json:"target_status"`
	ExpectedStatus string `json:"expected_status"`
	Source         string `json:"source,omitempty"`
}
