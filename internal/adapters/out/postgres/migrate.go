package postgres

import (
	"reconciler/internal/adapters/out/postgres/orderrepo"
	"reconciler/internal/adapters/out/postgres/taskrepo"
	"reconciler/internal/adapters/out/postgres/transitionrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the reconciler uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&orderrepo.OrderDTO{}, &transitionrepo.PendingTransitionDTO{}); err != nil {
		return err
	}
	return taskrepo.Migrate(db)
}
