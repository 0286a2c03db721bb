// Package orderrepo persists the order fields the reconciler works with:
// status, the checkout lock flag and the hold deadline.
package orderrepo

import (
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is one row of the orders table.
type OrderDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status    string     `gorm:"type:varchar(32);not null;index"`
	Locked    bool       `gorm:"not null;default:false"`
	HoldUntil *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time  `gorm:"type:timestamptz;not null"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:        o.ID().Bytes(),
		Status:    string(o.Status()),
		Locked:    o.IsLocked(),
		HoldUntil: o.HoldUntil(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, order.Status(dto.Status), dto.Locked, dto.HoldUntil)
}
