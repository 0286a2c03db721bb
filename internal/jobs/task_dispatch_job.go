package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// TaskDispatchJob ticks the dispatcher on a cron schedule. Wake-ups from
// LISTEN/NOTIFY only shorten the wait; the tick alone is enough to run every
// task eventually.
type TaskDispatchJob struct {
	dispatcher *TaskDispatcher
	spec       string
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewTaskDispatchJob(dispatcher *TaskDispatcher, spec string, logger *slog.Logger) *TaskDispatchJob {
	return &TaskDispatchJob{
		dispatcher: dispatcher,
		spec:       spec,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "task_dispatch_job"),
	}
}

// Start schedules the tick. An invalid cron spec is returned as an error.
func (j *TaskDispatchJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		if _, err := j.dispatcher.DispatchDue(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Task dispatch failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Task dispatch job started", "schedule", j.spec)
	return nil
}

// Stop stops the tick and waits for a running pass to finish.
func (j *TaskDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Task dispatch job stopped")
}
