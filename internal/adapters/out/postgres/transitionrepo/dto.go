// Package transitionrepo stores the pending transition queue, one row per
// entry. The bigserial id is the queue sequence.
package transitionrepo

import (
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/transition"

	"github.com/google/uuid"
)

// PendingTransitionDTO is one queued entry.
type PendingTransitionDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index:idx_pending_transitions_order"`
	Target     string    `gorm:"type:varchar(32);not null"`
	Expected   string    `gorm:"type:varchar(32);not null"`
	Source     string    `gorm:"type:varchar(255);not null;default:''"`
	EnqueuedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (PendingTransitionDTO) TableName() string {
	return "pending_transitions"
}

func fromDomain(entry transition.PendingTransition) PendingTransitionDTO {
	return PendingTransitionDTO{
		OrderID:    entry.OrderID().Bytes(),
		Target:     string(entry.Target()),
		Expected:   string(entry.Expected()),
		Source:     entry.Source(),
		EnqueuedAt: entry.EnqueuedAt(),
	}
}

func toDomain(dto PendingTransitionDTO) (transition.PendingTransition, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return transition.PendingTransition{}, err
	}

	return transition.RestorePendingTransition(
		dto.ID,
		orderID,
		order.Status(dto.Target),
		order.Status(dto.Expected),
		dto.Source,
		dto.EnqueuedAt,
	)
}
