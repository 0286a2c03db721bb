package jobs

import (
	"context"
	"log/slog"
	"time"

	"reconciler/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// TaskReaperJob returns tasks whose dispatcher died mid-run to pending.
type TaskReaperJob struct {
	store  ports.TaskStore
	lease  time.Duration
	spec   string
	cron   *cron.Cron
	logger *slog.Logger
}

func NewTaskReaperJob(store ports.TaskStore, lease time.Duration, spec string, logger *slog.Logger) *TaskReaperJob {
	return &TaskReaperJob{
		store:  store,
		lease:  lease,
		spec:   spec,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "task_reaper_job"),
	}
}

// Reap runs one pass.
func (j *TaskReaperJob) Reap(ctx context.Context) {
	released, err := j.store.ReleaseStale(ctx, j.lease)
	if err != nil {
		j.logger.ErrorContext(ctx, "Releasing stale tasks failed", "error", err)
		return
	}
	if released > 0 {
		j.logger.WarnContext(ctx, "Released stale tasks", "count", released, "lease", j.lease)
	}
}

func (j *TaskReaperJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		j.Reap(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Task reaper job started", "schedule", j.spec, "lease", j.lease)
	return nil
}

func (j *TaskReaperJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Task reaper job stopped")
}
