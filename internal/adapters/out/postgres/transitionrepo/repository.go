package transitionrepo

import (
	"context"
	"sort"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/transition"
	"reconciler/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransitionQueue implements ports.TransitionQueue using GORM.
type GormTransitionQueue struct {
	db *gorm.DB
}

func NewGormTransitionQueue(db *gorm.DB) *GormTransitionQueue {
	return &GormTransitionQueue{db: db}
}

// Enqueue inserts the entry. Duplicates are stored as separate rows.
func (q *GormTransitionQueue) Enqueue(ctx context.Context, entry transition.PendingTransition) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return q.db.WithContext(ctx).Create(&dto).Error
}

// DequeueAll deletes and returns the order's entries with a single
// DELETE ... RETURNING. Rows inserted after the statement's snapshot are not
// visible to it and stay queued.
func (q *GormTransitionQueue) DequeueAll(ctx context.Context, orderID kernel.UUID) ([]transition.PendingTransition, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PendingTransitionDTO
	err := q.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("order_id = ?", orderID.Bytes()).
		Delete(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]transition.PendingTransition, 0, len(dtos))
	for _, dto := range dtos {
		entry, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, entry)
	}

	// RETURNING has no ORDER BY.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Before(entries[j])
	})
	return entries, nil
}

func (q *GormTransitionQueue) IsEmpty(ctx context.Context, orderID kernel.UUID) (bool, error) {
	n, err := q.Len(ctx, orderID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (q *GormTransitionQueue) Len(ctx context.Context, orderID kernel.UUID) (int, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := q.db.WithContext(ctx).
		Model(&PendingTransitionDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

var _ ports.TransitionQueue = (*GormTransitionQueue)(nil)
