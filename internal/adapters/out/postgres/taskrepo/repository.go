package taskrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/clock"
	"reconciler/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository implements ports.Scheduler and ports.TaskStore.
//
// When notifyChannel is set, every newly inserted task sends a NOTIFY on it
// with the dedupe key as payload. Inside a transaction Postgres delivers the
// notification on commit.
type GormTaskRepository struct {
	db            *gorm.DB
	clock         clock.Clock
	notifyChannel string
}

func NewGormTaskRepository(db *gorm.DB, clk clock.Clock, notifyChannel string) *GormTaskRepository {
	return &GormTaskRepository{
		db:            db,
		clock:         clk,
		notifyChannel: notifyChannel,
	}
}

var pendingDedupeTarget = clause.OnConflict{
	Columns:     []clause.Column{{Name: "name"}, {Name: "dedupe_key"}},
	TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "state = 'pending'"}}},
	DoNothing:   true,
}

// Schedule inserts a pending task. If a pending task with the same name and
// dedupe key exists the insert is skipped.
func (r *GormTaskRepository) Schedule(
	ctx context.Context,
	name task.Name,
	args task.Args,
	runAt time.Time,
	dedupeKey string,
) error {
	t, err := task.NewScheduledTask(kernel.NewUUID(), name, args, runAt, dedupeKey)
	if err != nil {
		return err
	}

	dto := fromDomain(t)
	result := r.db.WithContext(ctx).Clauses(pendingDedupeTarget).Create(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 || r.notifyChannel == "" {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", r.notifyChannel, dedupeKey).Error
}

// HasScheduled reports whether a pending task with this name and key exists.
// A running task does not count: it may be the drain that is re-arming itself.
func (r *GormTaskRepository) HasScheduled(ctx context.Context, name task.Name, dedupeKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ScheduledTaskDTO{}).
		Where("name = ? AND dedupe_key = ? AND state = ?", string(name), dedupeKey, string(task.StatePending)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClaimDue moves up to limit due pending tasks to running and returns them,
// oldest run_at first. Rows locked by another dispatcher are skipped.
func (r *GormTaskRepository) ClaimDue(ctx context.Context, limit int) ([]task.ScheduledTask, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "max int")
	}

	now := r.clock.Now()
	var dtos []ScheduledTaskDTO

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("state = ? AND run_at <= ?", string(task.StatePending), now).
			Order("run_at, created_at").
			Limit(limit).
			Find(&dtos).Error
		if err != nil || len(dtos) == 0 {
			return err
		}

		ids := make([]any, 0, len(dtos))
		for i := range dtos {
			ids = append(ids, dtos[i].ID)
			dtos[i].State = string(task.StateRunning)
			dtos[i].Attempts++
		}

		return tx.Model(&ScheduledTaskDTO{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"state":      string(task.StateRunning),
				"attempts":   gorm.Expr("attempts + 1"),
				"claimed_at": now,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]task.ScheduledTask, 0, len(dtos))
	for _, dto := range dtos {
		t, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Start stamps claimed_at of a running task with the current time. ClaimDue
// stamps a whole batch at once, and the dispatcher runs the batch serially, so
// the lease of a task is counted from here.
func (r *GormTaskRepository) Start(ctx context.Context, id kernel.UUID, attempts int) error {
	now := r.clock.Now()
	result := r.db.WithContext(ctx).
		Model(&ScheduledTaskDTO{}).
		Where("id = ? AND state = ? AND attempts = ?", id.Bytes(), string(task.StateRunning), attempts).
		Updates(map[string]any{
			"claimed_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("running task", id.String())
	}
	return nil
}

// Complete marks a running task done.
func (r *GormTaskRepository) Complete(ctx context.Context, id kernel.UUID) error {
	return r.finish(ctx, id, task.StateDone, "")
}

// Fail marks a running task failed for good.
func (r *GormTaskRepository) Fail(ctx context.Context, id kernel.UUID, cause string) error {
	return r.finish(ctx, id, task.StateFailed, cause)
}

// Retry puts a running task back to pending at runAt. If another pending task
// with the same dedupe key was scheduled meanwhile, this one is closed as done
// instead; the pending one covers it.
func (r *GormTaskRepository) Retry(ctx context.Context, id kernel.UUID, runAt time.Time, cause string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dto ScheduledTaskDTO
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&dto, "id = ?", id.Bytes()).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("scheduled task", id.String())
		}
		if err != nil {
			return err
		}
		return r.requeue(tx, dto, runAt, cause)
	})
}

// ReleaseStale returns tasks that have been running for longer than lease to
// pending, so that work claimed by a crashed dispatcher is picked up again.
func (r *GormTaskRepository) ReleaseStale(ctx context.Context, lease time.Duration) (int, error) {
	now := r.clock.Now()
	released := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []ScheduledTaskDTO
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("state = ? AND claimed_at < ?", string(task.StateRunning), now.Add(-lease)).
			Find(&stale).Error
		if err != nil {
			return err
		}

		for _, dto := range stale {
			if err = r.requeue(tx, dto, now, "lease expired"); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

func (r *GormTaskRepository) requeue(tx *gorm.DB, dto ScheduledTaskDTO, runAt time.Time, cause string) error {
	var superseding int64
	err := tx.Model(&ScheduledTaskDTO{}).
		Where("name = ? AND dedupe_key = ? AND state = ? AND id <> ?",
			dto.Name, dto.DedupeKey, string(task.StatePending), dto.ID).
		Count(&superseding).Error
	if err != nil {
		return err
	}

	updates := map[string]any{
		"state":      string(task.StatePending),
		"run_at":     runAt.UTC(),
		"last_error": cause,
		"claimed_at": nil,
		"updated_at": r.clock.Now(),
	}
	if superseding > 0 {
		updates["state"] = string(task.StateDone)
		updates["last_error"] = fmt.Sprintf("%s (superseded by a pending task)", cause)
	}

	return tx.Model(&ScheduledTaskDTO{}).Where("id = ?", dto.ID).Updates(updates).Error
}

func (r *GormTaskRepository) finish(ctx context.Context, id kernel.UUID, state task.State, cause string) error {
	result := r.db.WithContext(ctx).
		Model(&ScheduledTaskDTO{}).
		Where("id = ? AND state = ?", id.Bytes(), string(task.StateRunning)).
		Updates(map[string]any{
			"state":      string(state),
			"last_error": cause,
			"updated_at": r.clock.Now(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("running task", id.String())
	}
	return nil
}

// Pending returns the pending tasks of a dedupe key, for diagnostics and tests.
func (r *GormTaskRepository) Pending(ctx context.Context, name task.Name, dedupeKey string) ([]task.ScheduledTask, error) {
	var dtos []ScheduledTaskDTO
	err := r.db.WithContext(ctx).
		Where("name = ? AND dedupe_key = ? AND state = ?", string(name), dedupeKey, string(task.StatePending)).
		Order("run_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	tasks := make([]task.ScheduledTask, 0, len(dtos))
	for _, dto := range dtos {
		t, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

var (
	_ ports.Scheduler = (*GormTaskRepository)(nil)
	_ ports.TaskStore = (*GormTaskRepository)(nil)
)
