package ports

import (
	"context"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/task"
)

// TaskStore is the dispatcher's view of the scheduled task table.
type TaskStore interface {
	// ClaimDue marks up to limit due tasks as running and returns them.
	ClaimDue(ctx context.Context, limit int) ([]task.ScheduledTask, error)

	// Start renews the lease of a claimed task right before it runs. It fails
	// with errs.ErrObjectNotFound once the task was released and claimed again,
	// which attempts no longer matching reveals.
	Start(ctx context.Context, id kernel.UUID, attempts int) error

	Complete(ctx context.Context, id kernel.UUID) error

	// Retry returns a running task to pending at runAt.
	Retry(ctx context.Context, id kernel.UUID, runAt time.Time, cause string) error

	// Fail gives up on a running task.
	Fail(ctx context.Context, id kernel.UUID, cause string) error

	// ReleaseStale returns tasks running for longer than lease to pending.
	ReleaseStale(ctx context.Context, lease time.Duration) (int, error)
}
