package commands

import (
	"context"
)

// SetOrderHoldCommandHandler writes the hold deadline as a single-field update.
// A drain already scheduled before the new deadline re-defers itself when it
// fires, so nothing needs rescheduling here.
type SetOrderHoldCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewSetOrderHoldCommandHandler(uowFactory OrderUoWFactory) SetOrderHoldCommandHandler {
	return SetOrderHoldCommandHandler{uowFactory: uowFactory}
}

func (h SetOrderHoldCommandHandler) Handle(ctx context.Context, cmd SetOrderHoldCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.uowFactory.Create().OrderStore().SetHoldUntil(ctx, cmd.OrderID(), cmd.Until())
}
