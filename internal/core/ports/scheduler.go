package ports

import (
	"context"
	"time"

	"reconciler/internal/core/domain/model/task"
)

// Scheduler is the at-least-once delayed task gateway.
//
// A task runs at or after runAt, never before. While a pending task with the
// same name and dedupeKey exists, Schedule is a no-op.
type Scheduler interface {
	Schedule(ctx context.Context, name task.Name, args task.Args, runAt time.Time, dedupeKey string) error

	// HasScheduled reports whether a pending task with this name and key exists.
	HasScheduled(ctx context.Context, name task.Name, dedupeKey string) (bool, error)
}
