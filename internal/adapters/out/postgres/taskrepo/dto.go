// Package taskrepo is the durable side of the scheduler gateway: a table of
// delayed tasks claimed by the dispatcher with FOR UPDATE SKIP LOCKED.
package taskrepo

import (
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/task"

	"github.com/google/uuid"
)

// ScheduledTaskDTO is one row of scheduled_tasks. At most one pending row
// exists per (name, dedupe_key); Migrate creates the partial unique index.
type ScheduledTaskDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:varchar(128);not null"`
	DedupeKey string     `gorm:"type:varchar(255);not null"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null"`
	Attempt   int        `gorm:"not null;default:0"`
	RunAt     time.Time  `gorm:"type:timestamptz;not null;index:idx_scheduled_tasks_due,priority:2"`
	State     string     `gorm:"type:varchar(16);not null;index:idx_scheduled_tasks_due,priority:1"`
	Attempts  int        `gorm:"not null;default:0"`
	LastError string     `gorm:"type:text;not null;default:''"`
	ClaimedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time  `gorm:"type:timestamptz;not null"`
}

func (ScheduledTaskDTO) TableName() string {
	return "scheduled_tasks"
}

func fromDomain(t task.ScheduledTask) ScheduledTaskDTO {
	return ScheduledTaskDTO{
		ID:        t.ID().Bytes(),
		Name:      string(t.Name()),
		DedupeKey: t.DedupeKey(),
		OrderID:   t.Args().OrderID.Bytes(),
		Attempt:   t.Args().Attempt,
		RunAt:     t.RunAt(),
		State:     string(t.State()),
		Attempts:  t.Attempts(),
		LastError: t.LastError(),
	}
}

func toDomain(dto ScheduledTaskDTO) (task.ScheduledTask, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return task.ScheduledTask{}, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return task.ScheduledTask{}, err
	}

	return task.RestoreScheduledTask(
		id,
		task.Name(dto.Name),
		task.Args{OrderID: orderID, Attempt: dto.Attempt},
		dto.RunAt,
		dto.DedupeKey,
		task.State(dto.State),
		dto.Attempts,
		dto.LastError,
	)
}
