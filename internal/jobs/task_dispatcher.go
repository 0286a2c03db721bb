package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/clock"
	"reconciler/internal/pkg/errs"
)

// TaskHandler runs one claimed task.
type TaskHandler interface {
	Run(ctx context.Context, t task.ScheduledTask) error
}

// TaskHandlerFunc adapts a function to TaskHandler.
type TaskHandlerFunc func(ctx context.Context, t task.ScheduledTask) error

func (f TaskHandlerFunc) Run(ctx context.Context, t task.ScheduledTask) error {
	return f(ctx, t)
}

// DispatcherConfig bounds one dispatch pass and the retry of failing handlers.
type DispatcherConfig struct {
	BatchSize   int
	RetryDelay  time.Duration
	MaxAttempts int
}

// TaskDispatcher is the dispatch loop of the scheduler gateway: it claims due
// tasks and runs the handler registered for their name.
//
// A handler error puts the task back to pending after RetryDelay until it has
// been attempted MaxAttempts times; after that the task is marked failed.
// Tasks without a registered handler fail immediately. Each task renews its
// lease when it starts; a task whose lease was lost to ReleaseStale while it
// waited in the batch is skipped.
type TaskDispatcher struct {
	store    ports.TaskStore
	clock    clock.Clock
	config   DispatcherConfig
	logger   *slog.Logger
	handlers map[task.Name]TaskHandler

	// running keeps the cron tick and NOTIFY wake-ups from overlapping.
	running sync.Mutex
}

func NewTaskDispatcher(store ports.TaskStore, clk clock.Clock, config DispatcherConfig, logger *slog.Logger) *TaskDispatcher {
	if config.BatchSize <= 0 {
		config.BatchSize = 1
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	return &TaskDispatcher{
		store:    store,
		clock:    clk,
		config:   config,
		logger:   logger.With("component", "task_dispatcher"),
		handlers: make(map[task.Name]TaskHandler),
	}
}

// Register binds a handler to a task name. Call before the first dispatch.
func (d *TaskDispatcher) Register(name task.Name, handler TaskHandler) {
	d.handlers[name] = handler
}

// DispatchDue claims and runs due tasks batch by batch until none are left.
// It returns the number of tasks run. When another pass is in progress it
// returns immediately.
func (d *TaskDispatcher) DispatchDue(ctx context.Context) (int, error) {
	if !d.running.TryLock() {
		return 0, nil
	}
	defer d.running.Unlock()

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		claimed, err := d.store.ClaimDue(ctx, d.config.BatchSize)
		if err != nil {
			return total, fmt.Errorf("claim due tasks: %w", err)
		}

		for _, t := range claimed {
			d.run(ctx, t)
		}
		total += len(claimed)

		if len(claimed) < d.config.BatchSize {
			return total, nil
		}
	}
}

func (d *TaskDispatcher) run(ctx context.Context, t task.ScheduledTask) {
	log := d.logger.With(
		"task_id", t.ID().String(),
		"task", string(t.Name()),
		"dedupe_key", t.DedupeKey(),
		"attempts", t.Attempts(),
	)

	if err := d.store.Start(ctx, t.ID(), t.Attempts()); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			log.WarnContext(ctx, "Task lease lost before start, skipping")
			return
		}
		log.ErrorContext(ctx, "Failed to start task", "error", err)
		return
	}

	handler, ok := d.handlers[t.Name()]
	if !ok {
		log.ErrorContext(ctx, "No handler registered for task")
		if err := d.store.Fail(ctx, t.ID(), "no handler registered"); err != nil {
			log.ErrorContext(ctx, "Failed to mark task failed", "error", err)
		}
		return
	}

	runErr := handler.Run(ctx, t)
	if runErr == nil {
		if err := d.store.Complete(ctx, t.ID()); err != nil {
			log.ErrorContext(ctx, "Failed to mark task done", "error", err)
		}
		return
	}

	if t.Attempts() >= d.config.MaxAttempts {
		log.ErrorContext(ctx, "Task failed, giving up", "error", runErr)
		if err := d.store.Fail(ctx, t.ID(), runErr.Error()); err != nil {
			log.ErrorContext(ctx, "Failed to mark task failed", "error", err)
		}
		return
	}

	retryAt := d.clock.Now().Add(d.config.RetryDelay)
	log.WarnContext(ctx, "Task failed, retrying", "error", runErr, "retry_at", retryAt)
	if err := d.store.Retry(ctx, t.ID(), retryAt, runErr.Error()); err != nil {
		log.ErrorContext(ctx, "Failed to requeue task", "error", err)
	}
}
