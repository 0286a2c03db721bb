package services

import (
	"context"
	"log/slog"

	"reconciler/internal/core/domain/model/order"
)

// TransitionLogListener records every committed status change in the log.
type TransitionLogListener struct {
	logger *slog.Logger
}

func NewTransitionLogListener(logger *slog.Logger) *TransitionLogListener {
	return &TransitionLogListener{logger: logger.With("component", "transition_hooks")}
}

func (l *TransitionLogListener) OnTransition(ctx context.Context, phase order.Phase, event TransitionEvent) error {
	status := event.To
	if phase == order.PhaseExit {
		status = event.From
	}

	l.logger.InfoContext(ctx, "Order status "+phase.String(),
		"order_id", event.OrderID.String(),
		"status", status.String(),
		"from", event.From.String(),
		"to", event.To.String(),
		"at", event.At,
	)
	return nil
}
