package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderStore using GORM.
//
// Every single-field method is one UPDATE of one column, so a lock written by
// the checkout flow never overwrites a status written by the reconciler.
type GormOrderRepository struct {
	db        *gorm.DB
	lockOnGet bool
}

// NewGormOrderRepository creates a new GORM order repository. With lockOnGet
// set, Get takes a row lock (SELECT ... FOR UPDATE); it must then run inside
// a transaction.
func NewGormOrderRepository(db *gorm.DB, lockOnGet bool) *GormOrderRepository {
	return &GormOrderRepository{
		db:        db,
		lockOnGet: lockOnGet,
	}
}

// Add saves a new order to the database. A duplicate id yields
// order.ErrOrderAlreadyExists when the connection translates errors
// (gorm.Config.TranslateError).
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", order.ErrOrderAlreadyExists, aggregate.ID())
	}
	return err
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if r.lockOnGet {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetStatus(ctx context.Context, id kernel.UUID) (order.Status, error) {
	dto, err := r.column(ctx, id, "status")
	if err != nil {
		return order.Unknown, err
	}
	return order.Status(dto.Status), nil
}

// SetStatus writes the status column only. Legality is not checked here.
func (r *GormOrderRepository) SetStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	if status.IsZero() {
		return errs.NewValueIsRequiredError("status")
	}
	return r.update(ctx, id, "status", string(status))
}

func (r *GormOrderRepository) IsLocked(ctx context.Context, id kernel.UUID) (bool, error) {
	dto, err := r.column(ctx, id, "locked")
	if err != nil {
		return false, err
	}
	return dto.Locked, nil
}

func (r *GormOrderRepository) Lock(ctx context.Context, id kernel.UUID) error {
	return r.update(ctx, id, "locked", true)
}

func (r *GormOrderRepository) Unlock(ctx context.Context, id kernel.UUID) error {
	return r.update(ctx, id, "locked", false)
}

func (r *GormOrderRepository) GetHoldUntil(ctx context.Context, id kernel.UUID) (*time.Time, error) {
	dto, err := r.column(ctx, id, "hold_until")
	if err != nil {
		return nil, err
	}
	if dto.HoldUntil == nil {
		return nil, nil
	}
	t := dto.HoldUntil.UTC()
	return &t, nil
}

// SetHoldUntil writes the hold deadline; nil stores NULL.
func (r *GormOrderRepository) SetHoldUntil(ctx context.Context, id kernel.UUID, until *time.Time) error {
	if until == nil {
		return r.update(ctx, id, "hold_until", nil)
	}
	if until.IsZero() {
		return errs.NewValueIsRequiredError("hold until")
	}
	return r.update(ctx, id, "hold_until", until.UTC())
}

func (r *GormOrderRepository) update(ctx context.Context, id kernel.UUID, column string, value any) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{column: value, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

// column reads a single column of the order row into an otherwise empty DTO.
func (r *GormOrderRepository) column(ctx context.Context, id kernel.UUID, name string) (OrderDTO, error) {
	if err := id.Validate(); err != nil {
		return OrderDTO{}, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Select(name).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderDTO{}, errs.NewObjectNotFoundError("order", id.String())
	}
	return dto, err
}

var _ ports.OrderStore = (*GormOrderRepository)(nil)
