package jobs

import (
	"context"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/domain/model/task"
)

// TransitionProcessor is the part of the reconciliation processor the
// dispatcher needs.
type TransitionProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessPendingTransitionsCommand) (commands.ProcessReport, error)
}

// NewProcessTransitionsTaskHandler runs a drain for the order named in the
// task arguments. Entry outcomes are not errors; only infrastructure faults
// make the dispatcher retry.
func NewProcessTransitionsTaskHandler(processor TransitionProcessor) TaskHandler {
	return TaskHandlerFunc(func(ctx context.Context, t task.ScheduledTask) error {
		cmd, err := commands.NewProcessPendingTransitionsCommand(t.Args().OrderID, t.Args().Attempt)
		if err != nil {
			return err
		}

		_, err = processor.Handle(ctx, cmd)
		return err
	})
}
